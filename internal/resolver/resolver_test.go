package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/matcher"
	"github.com/franz/vdjfix/internal/similarity"
)

type fakeInfo struct{ size int64 }

func (f fakeInfo) Name() string       { return "" }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() os.FileMode  { return 0 }
func (f fakeInfo) ModTime() time.Time { return time.Now() }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() interface{}   { return nil }

func buildCoordinator(t *testing.T, logsDir string, paths ...string) *Coordinator {
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

	m := matcher.New(cat, similarity.New(similarity.DefaultConfig()))
	return New(Config{Catalog: cat, Matcher: m, LogsDir: logsDir, Concurrency: 2})
}

func TestSearchManyPreservesInputOrder(t *testing.T) {
	c := buildCoordinator(t, t.TempDir(), "/Music/A.mp3", "/Music/B.mp3")
	queries := []string{"/Music/B.mp3", "/Music/A.mp3", "/Music/Missing.mp3"}

	res, err := c.SearchMany(context.Background(), queries, Options{FuzzySearch: false})
	if err != nil {
		t.Fatalf("SearchMany: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(res.Results))
	}
	for i, q := range queries {
		if res.Results[i].QueryPath != q {
			t.Errorf("result[%d].QueryPath = %q, want %q", i, res.Results[i].QueryPath, q)
		}
	}
	if !res.Results[0].Found || !res.Results[1].Found {
		t.Errorf("expected exact hits for A and B, got %+v", res.Results[:2])
	}
	if res.Results[2].Found {
		t.Errorf("expected miss for third query, got %+v", res.Results[2])
	}
}

func TestSearchManyWritesRunLog(t *testing.T) {
	logsDir := t.TempDir()
	c := buildCoordinator(t, logsDir, "/Music/A.mp3")

	if _, err := c.SearchMany(context.Background(), []string{"/Music/A.mp3"}, Options{}); err != nil {
		t.Fatalf("SearchMany: %v", err)
	}

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d log files, want 1", len(entries))
	}
}

func TestSearchManyCachesSecondCall(t *testing.T) {
	c := buildCoordinator(t, t.TempDir(), "/Music/A.mp3")
	queries := []string{"/Music/A.mp3"}

	first, err := c.SearchMany(context.Background(), queries, Options{})
	if err != nil {
		t.Fatalf("SearchMany: %v", err)
	}
	second, err := c.SearchMany(context.Background(), queries, Options{})
	if err != nil {
		t.Fatalf("SearchMany: %v", err)
	}
	if first != second {
		t.Errorf("expected second call to return the cached pointer")
	}
}

func TestSearchManyAggregatesStagesByLabel(t *testing.T) {
	c := buildCoordinator(t, t.TempDir(), "/Music/A.mp3")
	res, err := c.SearchMany(context.Background(), []string{"/Music/A.mp3"}, Options{})
	if err != nil {
		t.Fatalf("SearchMany: %v", err)
	}
	stat, ok := res.Stats.ByStage["T1"]
	if !ok || stat.Count != 1 {
		t.Errorf("expected one T1 hit in stats, got %+v", res.Stats.ByStage)
	}
}
