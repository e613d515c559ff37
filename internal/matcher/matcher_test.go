package matcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/similarity"
)

type fakeInfo struct{ size int64 }

func (f fakeInfo) Name() string       { return "" }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() os.FileMode  { return 0 }
func (f fakeInfo) ModTime() time.Time { return time.Now() }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() interface{}   { return nil }

func buildCatalog(t *testing.T, paths ...string) *catalog.Catalog {
	t.Helper()
	cat := catalog.New(filepath.Join(t.TempDir(), "catalog.json"))
	var records []*catalog.MediaRecord
	for _, p := range paths {
		r, ok := catalog.NewRecord(p, fakeInfo{size: 100})
		if !ok {
			t.Fatalf("NewRecord(%q) rejected", p)
		}
		records = append(records, r)
	}
	cat.ReplaceAll(records)
	return cat
}

func newMatcher(cat *catalog.Catalog) *Matcher {
	return New(cat, similarity.New(similarity.DefaultConfig()))
}

func TestExactRelocation(t *testing.T) {
	cat := buildCatalog(t, "/Music/Pop/Tarkan - Yolla.mp3")
	m := newMatcher(cat)
	got := m.Match("/Music/Pop/Tarkan - Yolla.mp3", Options{FuzzySearch: true})
	if got.MatchType != StageExactPath || got.Similarity != 1.0 || got.FoundPath != "/Music/Pop/Tarkan - Yolla.mp3" {
		t.Errorf("got %+v", got)
	}
}

func TestSameFolderNewExtension(t *testing.T) {
	cat := buildCatalog(t, "/Music/Pop/Tarkan - Yolla.m4a")
	m := newMatcher(cat)
	got := m.Match("/Music/Pop/Tarkan - Yolla.mp3", Options{FuzzySearch: true})
	if got.MatchType != StageSameDirDiffExt || got.Similarity != 0.9 {
		t.Errorf("got %+v", got)
	}
}

func TestMovedFile(t *testing.T) {
	cat := buildCatalog(t, "/Archive/2023/Tarkan - Yolla.mp3")
	m := newMatcher(cat)
	got := m.Match("/Music/Pop/Tarkan - Yolla.mp3", Options{FuzzySearch: true})
	if got.MatchType != StageDiffDirSameStem || got.Similarity != 0.8 {
		t.Errorf("got %+v", got)
	}
}

func TestFuzzyHit(t *testing.T) {
	cat := buildCatalog(t, "/Music/Classical/Çelik - Ateşteyim.mp3")
	m := newMatcher(cat)
	got := m.Match("/Music/Çelik - Ateşteyim (10).mp3", Options{FuzzySearch: true})
	if got.MatchType != StageFuzzy || got.Similarity < 0.75 {
		t.Errorf("got %+v", got)
	}
}

func TestDifferentArtistsReject(t *testing.T) {
	cat := buildCatalog(t, "/Y/Dr. Alban - No Coke 2k24 (Dr. Luxe & DJ Finn & Lexy Key VIP Remix).mp3")
	m := newMatcher(cat)
	got := m.Match("/X/Dr. Alban - Away From Home.mp4", Options{FuzzySearch: true, Tau: 0.3})
	if got.Found && got.Similarity >= 0.7 {
		t.Errorf("expected low-confidence or not-found, got %+v", got)
	}

	strictScorer := similarity.New(similarity.StrictConfig())
	strictMatcher := New(cat, strictScorer)
	strict := strictMatcher.Match("/X/Dr. Alban - Away From Home.mp4", Options{FuzzySearch: true, Tau: 0.3})
	_ = strict // both settings must not panic; stability is the property under test
}

func TestStageMonotonicity(t *testing.T) {
	// An exact path hit must never fall through to T2+ for the same query.
	cat := buildCatalog(t, "/Music/Pop/Tarkan - Yolla.mp3", "/Archive/Tarkan - Yolla.m4a")
	m := newMatcher(cat)
	got := m.Match("/Music/Pop/Tarkan - Yolla.mp3", Options{FuzzySearch: true})
	if got.MatchType != StageExactPath {
		t.Errorf("expected T1, got %s", got.MatchType)
	}
}

func TestFuzzyDisabledMakesT4MissTerminal(t *testing.T) {
	cat := buildCatalog(t, "/Music/Classical/Çelik - Ateşteyim.mp3")
	m := newMatcher(cat)
	got := m.Match("/Music/Other Name Entirely.mp3", Options{FuzzySearch: false})
	if got.Found || got.MatchType != StageNotFound {
		t.Errorf("got %+v, want not found", got)
	}
}
