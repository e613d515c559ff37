// Package similarity computes a [0,1] weighted word-overlap score between
// two filenames, tuned for "Artist - Title" naming, per §4.3.
package similarity

import "github.com/franz/vdjfix/internal/words"

// Config exposes the two tunables the source oscillates on (§9 design
// notes): the minimum count of shared meaningful words required before any
// non-zero score is returned, and the weight of the artist-position bonus.
type Config struct {
	// MinMeaningfulMatch is the match floor M must reach. The reference
	// value is 1; an older, stricter variant used 2.
	MinMeaningfulMatch int
	// ArtistBonusWeight is the bonus applied when both bundles' first
	// meaningful word agrees. The authoritative scorer uses 0.1; an
	// earlier analysis script used 0.3 and was judged too aggressive.
	ArtistBonusWeight float64
}

// DefaultConfig matches the authoritative scorer's preferred values.
func DefaultConfig() Config {
	return Config{MinMeaningfulMatch: 1, ArtistBonusWeight: 0.1}
}

// StrictConfig matches the older, stricter variant referenced in the design
// notes; kept so property tests can exercise both settings.
func StrictConfig() Config {
	return Config{MinMeaningfulMatch: 2, ArtistBonusWeight: 0.1}
}

const (
	longWordBonusWeight  = 0.2
	titleBonusWeight     = 0.2
	fullMatchBonusWeight = 0.15
	fullMatchThreshold   = 3
	bonusMinLen          = 3
	longWordMinLen       = 4
	stopWordPenaltyCap   = 0.2
	stopWordPenaltyStep  = 0.05
)

// Scorer computes similarity scores under a fixed Config.
type Scorer struct {
	cfg Config
}

// New builds a Scorer. A zero-value Config is replaced with DefaultConfig.
func New(cfg Config) *Scorer {
	if cfg.MinMeaningfulMatch == 0 {
		cfg.MinMeaningfulMatch = DefaultConfig().MinMeaningfulMatch
	}
	if cfg.ArtistBonusWeight == 0 {
		cfg.ArtistBonusWeight = DefaultConfig().ArtistBonusWeight
	}
	return &Scorer{cfg: cfg}
}

// Score computes similarity(query, candidate) per §4.3, steps 1-9.
func (s *Scorer) Score(query, candidate words.Bundle) float64 {
	if len(query.MeaningfulWords) == 0 || len(candidate.MeaningfulWords) == 0 {
		return fileWordFallback(query.FileWords, candidate.FileWords)
	}

	shared := intersect(query.MeaningfulWords, candidate.MeaningfulWords)
	m := len(shared)
	if m < s.cfg.MinMeaningfulMatch {
		return 0
	}

	denom := maxInt(len(query.MeaningfulWords), len(candidate.MeaningfulWords))
	if denom == 0 {
		return 0
	}

	score := float64(m) / float64(denom)

	longWords := 0
	for w := range shared {
		if len([]rune(w)) >= longWordMinLen {
			longWords++
		}
	}
	score += (float64(longWords) / float64(denom)) * longWordBonusWeight

	if equalAt(query.MeaningfulWords, candidate.MeaningfulWords, 0, bonusMinLen) {
		score += s.cfg.ArtistBonusWeight
	}
	if equalAt(query.MeaningfulWords, candidate.MeaningfulWords, 1, bonusMinLen) {
		score += titleBonusWeight
	}
	if m >= fullMatchThreshold {
		score += fullMatchBonusWeight
	}

	g := len(sharedStopWords(query.FileWords, candidate.FileWords))
	penalty := stopWordPenaltyStep * float64(g)
	if penalty > stopWordPenaltyCap {
		penalty = stopWordPenaltyCap
	}
	score -= penalty

	return clamp01(score)
}

// FileWordOverlap is exposed for the matcher's tie-break rule (§4.3):
// on equal scores, prefer the candidate with higher |q.fileWords ∩ c.fileWords|.
func FileWordOverlap(a, b []string) int {
	return len(intersect(a, b))
}

func fileWordFallback(a, b []string) float64 {
	overlap := len(intersect(a, b))
	denom := maxInt(len(a), len(b))
	if denom == 0 {
		return 0
	}
	return (float64(overlap) / float64(denom)) * 0.3
}

func equalAt(a, b []string, idx, minLen int) bool {
	if idx >= len(a) || idx >= len(b) {
		return false
	}
	if a[idx] != b[idx] {
		return false
	}
	return len([]rune(a[idx])) >= minLen
}

func sharedStopWords(a, b []string) map[string]bool {
	bSet := toSet(b)
	shared := make(map[string]bool)
	for _, w := range a {
		if bSet[w] && words.IsStopWord(w) {
			shared[w] = true
		}
	}
	return shared
}

func intersect(a, b []string) map[string]bool {
	bSet := toSet(b)
	shared := make(map[string]bool)
	for _, w := range a {
		if bSet[w] {
			shared[w] = true
		}
	}
	return shared
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
