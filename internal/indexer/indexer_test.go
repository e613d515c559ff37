package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/vdjfix/internal/catalog"
	"github.com/franz/vdjfix/internal/util"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildIndexesSupportedFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Pop", "Tarkan - Yolla.mp3"))
	writeFile(t, filepath.Join(root, "Pop", "readme.txt"))
	writeFile(t, filepath.Join(root, "Pop", "cover.apng"))

	cat := catalog.New(filepath.Join(t.TempDir(), "catalog.json"))
	ix := New(Config{Catalog: cat, Concurrency: 2})

	report, err := ix.Build(context.Background(), root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", report.TotalFiles)
	}
	if len(cat.All()) != 2 {
		t.Errorf("catalog has %d records, want 2", len(cat.All()))
	}
}

func TestBuildMissingRootFails(t *testing.T) {
	cat := catalog.New(filepath.Join(t.TempDir(), "catalog.json"))
	ix := New(Config{Catalog: cat})
	_, err := ix.Build(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, util.ErrRootMissing) {
		t.Errorf("got %v, want ErrRootMissing", err)
	}
}

func TestBuildPersistsCatalog(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Tarkan - Yolla.mp3"))

	catPath := filepath.Join(t.TempDir(), "catalog.json")
	cat := catalog.New(catPath)
	ix := New(Config{Catalog: cat})

	if _, err := ix.Build(context.Background(), root); err != nil {
		t.Fatalf("Build: %v", err)
	}

	reloaded, err := catalog.Load(catPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reloaded.All()) != 1 {
		t.Errorf("reloaded catalog has %d records, want 1", len(reloaded.All()))
	}
}
