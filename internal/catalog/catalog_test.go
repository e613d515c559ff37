package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeInfo struct {
	size    int64
	modTime time.Time
}

func (f fakeInfo) Name() string       { return "" }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() os.FileMode  { return 0 }
func (f fakeInfo) ModTime() time.Time { return f.modTime }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() interface{}   { return nil }

func mustRecord(t *testing.T, path string) *MediaRecord {
	t.Helper()
	r, ok := NewRecord(path, fakeInfo{size: 1234, modTime: time.Now()})
	if !ok {
		t.Fatalf("NewRecord(%q) rejected", path)
	}
	return r
}

func TestIndexesReachEveryRecord(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "catalog.json"))
	r := mustRecord(t, "/Music/Pop/Tarkan - Yolla.mp3")
	c.ReplaceAll([]*MediaRecord{r})

	if got, ok := c.GetByPath(r.Path); !ok || got != r {
		t.Errorf("GetByPath failed to find record")
	}
	if members := c.GetByStem(r.Stem); len(members) != 1 || members[0].Path != r.Path {
		t.Errorf("GetByStem failed: %v", members)
	}
	if members := c.GetByNormalizedName(r.NormalizedName); len(members) != 1 {
		t.Errorf("GetByNormalizedName failed: %v", members)
	}
	if members := c.GetByNormalizedDir(NormalizedDir(r.Path)); len(members) != 1 {
		t.Errorf("GetByNormalizedDir failed: %v", members)
	}
}

func TestUnsupportedExtensionRejected(t *testing.T) {
	if _, ok := NewRecord("/Music/notes.txt", fakeInfo{}); ok {
		t.Errorf("expected .txt to be rejected")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	c := New(path)
	r := mustRecord(t, "/Music/Pop/Tarkan - Yolla.mp3")
	c.ReplaceAll([]*MediaRecord{r})

	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, ok := loaded.GetByPath(r.Path); !ok || got.Stem != r.Stem {
		t.Errorf("round trip lost record: %+v", got)
	}
	if loaded.Stats().TotalFiles != 1 {
		t.Errorf("Stats.TotalFiles = %d, want 1", loaded.Stats().TotalFiles)
	}
}

func TestReplaceAllIsDeterministicOrder(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "catalog.json"))
	a := mustRecord(t, "/Music/B - Song.mp3")
	b := mustRecord(t, "/Music/A - Song.mp3")
	c.ReplaceAll([]*MediaRecord{a, b})

	all := c.All()
	if len(all) != 2 || all[0].Path != b.Path || all[1].Path != a.Path {
		t.Errorf("expected path-sorted order, got %v, %v", all[0].Path, all[1].Path)
	}
}
