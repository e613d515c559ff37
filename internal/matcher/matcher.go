// Package matcher implements the five-stage cascade (T1-T5) that resolves
// a broken query path against the media catalog (§4.6).
package matcher

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/similarity"
	"github.com/franz/vdjfix/internal/textnorm"
	"github.com/franz/vdjfix/internal/words"
)

// Stage identifies which cascade level produced a result (or that none did).
type Stage string

const (
	StageExactPath         Stage = "T1"
	StageSameDirDiffExt    Stage = "T2"
	StageDiffDirSameStem   Stage = "T3"
	StageDiffDirDiffExt    Stage = "T4"
	StageFuzzy             Stage = "T5"
	StageNotFound          Stage = "not_found"
)

// algorithmLabels mirrors the stage table in §4.6, one label per stage, for
// the aggregated per-stage stats the coordinator reports (§4.8).
var algorithmLabels = map[Stage]string{
	StageExactPath:       "exact path",
	StageSameDirDiffExt:  "same dir, different extension",
	StageDiffDirSameStem: "different dir, same stem",
	StageDiffDirDiffExt:  "different dir and extension",
	StageFuzzy:           "fuzzy",
}

// AlgorithmLabel returns the human-readable label for a stage.
func AlgorithmLabel(s Stage) string { return algorithmLabels[s] }

// DefaultTau is the similarity cut-off for T5 candidates.
const DefaultTau = 0.3

// Options controls a single match() call.
type Options struct {
	// FuzzySearch enables T5; when false (the zero value) a T1-T4 miss is
	// terminal (§4.6).
	FuzzySearch bool
	// Tau is the T5 similarity cut-off. Zero means DefaultTau.
	Tau float64
}

// Result is the outcome of one match() call.
type Result struct {
	QueryPath      string
	Found          bool
	MatchType      Stage
	Similarity     float64
	FoundPath      string
	AlgorithmLabel string
	ProcessTime    time.Duration
}

// Matcher runs the T1-T5 cascade against a Catalog.
type Matcher struct {
	cat    *catalog.Catalog
	scorer *similarity.Scorer
}

// New builds a Matcher bound to a catalog and similarity scorer.
func New(cat *catalog.Catalog, scorer *similarity.Scorer) *Matcher {
	return &Matcher{cat: cat, scorer: scorer}
}

// Match runs the cascade for one query path. Stages are evaluated in
// order; the first match wins (stage monotonicity, §8).
func (m *Matcher) Match(queryPath string, opts Options) Result {
	start := time.Now()
	tau := opts.Tau
	if tau == 0 {
		tau = DefaultTau
	}

	result := func(stage Stage, sim float64, found string) Result {
		return Result{
			QueryPath:      queryPath,
			Found:          true,
			MatchType:      stage,
			Similarity:     sim,
			FoundPath:      found,
			AlgorithmLabel: AlgorithmLabel(stage),
			ProcessTime:    time.Since(start),
		}
	}

	// T1: exact path.
	if rec, ok := m.cat.GetByPath(queryPath); ok {
		return result(StageExactPath, 1.0, rec.Path)
	}

	queryStem := strings.TrimSuffix(filepath.Base(queryPath), filepath.Ext(queryPath))
	queryDir := catalog.NormalizedDir(queryPath)
	queryFileNameNorm := textnorm.Normalize(queryStem, textnorm.FileName)

	// T2: same normalized dir, same normalized stem, different extension.
	if bucket := m.cat.GetByNormalizedDir(queryDir); len(bucket) > 0 {
		var matches []*catalog.MediaRecord
		for _, r := range bucket {
			if textnorm.Normalize(r.Stem, textnorm.FileName) == queryFileNameNorm {
				matches = append(matches, r)
			}
		}
		if len(matches) > 0 {
			rec := firstByPath(matches)
			return result(StageSameDirDiffExt, 0.90, rec.Path)
		}
	}

	// T3: different dir, same bare stem.
	if bucket := m.cat.GetByStem(queryStem); len(bucket) > 0 {
		rec := firstByPath(bucket)
		return result(StageDiffDirSameStem, 0.80, rec.Path)
	}

	// T4: different dir and extension, same normalized ("word" profile) name.
	queryWordNorm := textnorm.Normalize(queryStem, textnorm.Word)
	if bucket := m.cat.GetByNormalizedName(queryWordNorm); len(bucket) > 0 {
		rec := firstByPath(bucket)
		return result(StageDiffDirDiffExt, 1.0, rec.Path)
	}

	if !opts.FuzzySearch {
		return Result{QueryPath: queryPath, Found: false, MatchType: StageNotFound, ProcessTime: time.Since(start)}
	}

	// T5: fuzzy, scored against every record.
	queryBundle := words.Extract(filepath.Base(queryPath), queryPath)
	var best *catalog.MediaRecord
	var bestScore float64
	var bestOverlap int
	for _, rec := range m.cat.All() {
		score := m.scorer.Score(queryBundle, rec.Bundle())
		if score <= tau {
			continue
		}
		overlap := similarity.FileWordOverlap(queryBundle.FileWords, rec.FileWords)
		if best == nil || score > bestScore || (score == bestScore && overlap > bestOverlap) {
			best = rec
			bestScore = score
			bestOverlap = overlap
		}
	}
	if best != nil {
		return result(StageFuzzy, bestScore, best.Path)
	}

	return Result{QueryPath: queryPath, Found: false, MatchType: StageNotFound, ProcessTime: time.Since(start)}
}

// firstByPath picks the first record after a stable sort on path (§4.6:
// "on a T2/T3/T4 hit where the bucket has multiple records, pick the first
// after a stable sort on path").
func firstByPath(records []*catalog.MediaRecord) *catalog.MediaRecord {
	sorted := append([]*catalog.MediaRecord{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	return sorted[0]
}
