package similarity

import (
	"testing"

	"github.com/franz/vdjfix/internal/words"
)

func bundleFor(name, path string) words.Bundle {
	return words.Extract(name, path)
}

func TestSelfSimilarityIsHigh(t *testing.T) {
	b := bundleFor("Tarkan - Yolla.mp3", "/Music/Pop/Tarkan - Yolla.mp3")
	s := New(DefaultConfig())
	got := s.Score(b, b)
	if got < 0.85 {
		t.Errorf("self-similarity = %v, want >= 0.85", got)
	}
}

func TestSimilarityAgainstEmptyIsZero(t *testing.T) {
	b := bundleFor("Tarkan - Yolla.mp3", "/Music/Pop/Tarkan - Yolla.mp3")
	empty := words.Bundle{}
	s := New(DefaultConfig())
	if got := s.Score(b, empty); got != 0 {
		t.Errorf("similarity(q, empty) = %v, want 0", got)
	}
}

func TestStopWordOnlyFilenameScoresZeroAgainstUnrelated(t *testing.T) {
	q := bundleFor("Official Remix Video.mp3", "/Music/Official Remix Video.mp3")
	c := bundleFor("Tarkan - Yolla.mp3", "/Music/Pop/Tarkan - Yolla.mp3")
	s := New(DefaultConfig())
	if got := s.Score(q, c); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestDifferentArtistsScoreLowAndFloorMattersAcrossConfigs(t *testing.T) {
	q := bundleFor("Dr. Alban - Away From Home.mp4", "/X/Dr. Alban - Away From Home.mp4")
	c := bundleFor(
		"Dr. Alban - No Coke 2k24 (Dr. Luxe & DJ Finn & Lexy Key VIP Remix).mp3",
		"/Y/Dr. Alban - No Coke 2k24 (Dr. Luxe & DJ Finn & Lexy Key VIP Remix).mp3",
	)
	for _, cfg := range []Config{DefaultConfig(), StrictConfig()} {
		s := New(cfg)
		got := s.Score(q, c)
		if got >= 0.7 {
			t.Errorf("config %+v: got %v, want < 0.7", cfg, got)
		}
	}
}

func TestFuzzyHitScoresHighAgainstSuffixedDuplicate(t *testing.T) {
	catalog := bundleFor("Çelik - Ateşteyim.mp3", "/Music/Classical/Çelik - Ateşteyim.mp3")
	query := bundleFor("Çelik - Ateşteyim (10).mp3", "/Music/Çelik - Ateşteyim (10).mp3")
	s := New(DefaultConfig())
	got := s.Score(query, catalog)
	if got < 0.75 {
		t.Errorf("got %v, want >= 0.75", got)
	}
}

func TestFileWordOverlapTieBreak(t *testing.T) {
	a := []string{"tarkan", "yolla"}
	b := []string{"tarkan", "yolla", "remix"}
	if got := FileWordOverlap(a, b); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}
