// Package resolver batches match queries through the matcher cascade,
// caches responses, aggregates per-stage statistics, and writes a JSON run
// log for every batch (§4.8).
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/matcher"
	"github.com/franz/vdjfix/internal/report"
	"github.com/sourcegraph/conc/pool"
)

// Options controls one searchMany call.
type Options struct {
	// FuzzySearch enables T5 (§4.8); the zero value leaves T5 disabled.
	FuzzySearch bool
	Tau         float64
}

// QueryResult is the outcome of one query within a batch.
type QueryResult struct {
	QueryPath      string  `json:"queryPath"`
	Status         string  `json:"status"` // "ok" or "error"
	Found          bool    `json:"found"`
	MatchType      string  `json:"matchType,omitempty"`
	Similarity     float64 `json:"similarity,omitempty"`
	FoundPath      string  `json:"foundPath,omitempty"`
	AlgorithmLabel string  `json:"algorithmLabel,omitempty"`
	ProcessTimeMs  int64   `json:"processTimeMs"`
	Error          string  `json:"error,omitempty"`
}

// StageStat is the per-stage aggregate for one batch (§4.8).
type StageStat struct {
	Count          int    `json:"count"`
	CumulativeMs   int64  `json:"cumulativeMs"`
	AlgorithmLabel string `json:"algorithmLabel"`
}

// Stats aggregates a batch's timing and per-stage counts.
type Stats struct {
	ByStage        map[string]*StageStat `json:"byStage"`
	TotalMs        int64                 `json:"totalMs"`
	MeanPerQueryMs float64               `json:"meanPerQueryMs"`
}

// ManyResult is the response of one searchMany call.
type ManyResult struct {
	Results []QueryResult `json:"results"`
	Stats   Stats         `json:"stats"`
}

// Config configures a Coordinator.
type Config struct {
	Catalog        *catalog.Catalog
	Matcher        *matcher.Matcher
	LogsDir        string
	Logger         *report.EventLogger
	Concurrency    int
	CacheTTL       time.Duration
	CacheMaxEntries int
}

// Coordinator is the resolver coordinator bound to a catalog and matcher.
type Coordinator struct {
	matcher     *matcher.Matcher
	cache       *resultCache
	logsDir     string
	logger      *report.EventLogger
	concurrency int
}

// New builds a Coordinator.
func New(cfg Config) *Coordinator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Coordinator{
		matcher:     cfg.Matcher,
		cache:       newResultCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		logsDir:     cfg.LogsDir,
		logger:      cfg.Logger,
		concurrency: cfg.Concurrency,
	}
}

// SearchMany dispatches each query through the matcher cascade in parallel
// and returns results in input order, with aggregated stats (§4.8, §5
// ordering guarantees).
func (c *Coordinator) SearchMany(ctx context.Context, queries []string, opts Options) (*ManyResult, error) {
	start := time.Now()

	key := cacheKey(queries)
	if cached, ok := c.cache.get(key); ok {
		c.logger.LogCache("hit", c.cache.size())
		return cached, nil
	}
	c.logger.LogCache("miss", c.cache.size())

	results := make([]QueryResult, len(queries))
	p := pool.New().WithMaxGoroutines(c.concurrency)
	for i, q := range queries {
		i, q := i, q
		p.Go(func() {
			results[i] = c.runOne(q, opts)
		})
	}
	p.Wait()

	stats := aggregateStats(results)
	out := &ManyResult{Results: results, Stats: stats}

	if ctx.Err() == nil {
		c.cache.put(key, out)
	}

	c.logger.LogBatch(len(queries), time.Since(start))
	if err := c.writeRunLog(queries, opts, out, start); err != nil {
		return out, fmt.Errorf("write run log: %w", err)
	}

	return out, nil
}

func (c *Coordinator) runOne(queryPath string, opts Options) (result QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			// A single query's failure turns into a status:"error" result
			// for that query only; the batch still completes (§7 policy).
			result = QueryResult{QueryPath: queryPath, Status: "error", Error: fmt.Sprintf("%v", r)}
		}
	}()

	mres := c.matcher.Match(queryPath, matcher.Options{FuzzySearch: opts.FuzzySearch, Tau: opts.Tau})
	c.logger.LogSearch(queryPath, mres.FoundPath, string(mres.MatchType), mres.Similarity, mres.ProcessTime, nil)

	return QueryResult{
		QueryPath:      queryPath,
		Status:         "ok",
		Found:          mres.Found,
		MatchType:      string(mres.MatchType),
		Similarity:     mres.Similarity,
		FoundPath:      mres.FoundPath,
		AlgorithmLabel: mres.AlgorithmLabel,
		ProcessTimeMs:  mres.ProcessTime.Milliseconds(),
	}
}

func aggregateStats(results []QueryResult) Stats {
	byStage := make(map[string]*StageStat)
	var totalMs int64
	for _, r := range results {
		totalMs += r.ProcessTimeMs
		if r.MatchType == "" {
			continue
		}
		s, ok := byStage[r.MatchType]
		if !ok {
			s = &StageStat{AlgorithmLabel: r.AlgorithmLabel}
			byStage[r.MatchType] = s
		}
		s.Count++
		s.CumulativeMs += r.ProcessTimeMs
	}

	mean := 0.0
	if len(results) > 0 {
		mean = float64(totalMs) / float64(len(results))
	}

	return Stats{ByStage: byStage, TotalMs: totalMs, MeanPerQueryMs: mean}
}

type runLogEnvelope struct {
	Timestamp time.Time   `json:"timestamp"`
	RunID     string      `json:"runId,omitempty"`
	Request   runLogQuery `json:"request"`
	Response  *ManyResult `json:"response"`
}

type runLogQuery struct {
	Queries     []string `json:"queries"`
	FuzzySearch bool     `json:"fuzzySearch"`
}

// writeRunLog persists one JSON log per batch to logs/search_files_log_*
// (§4.8, §6 run logs).
func (c *Coordinator) writeRunLog(queries []string, opts Options, result *ManyResult, at time.Time) error {
	if c.logsDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.logsDir, 0755); err != nil {
		return err
	}

	envelope := runLogEnvelope{
		Timestamp: at,
		RunID:     c.logger.RunID(),
		Request:   runLogQuery{Queries: queries, FuzzySearch: opts.FuzzySearch},
		Response:  result,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}

	name := fmt.Sprintf("search_files_log_%s.json", at.Format("20060102_150405"))
	return os.WriteFile(filepath.Join(c.logsDir, name), data, 0644)
}

// sortedStageKeys returns byStage keys in canonical T1..T5 order, useful to
// callers rendering a deterministic summary.
func sortedStageKeys(byStage map[string]*StageStat) []string {
	keys := make([]string, 0, len(byStage))
	for k := range byStage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
