package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	os.Chdir(dir)

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.FuzzySearch {
		t.Error("expected FuzzySearch default true")
	}
	if s.Tau != 0.3 {
		t.Errorf("Tau = %v, want 0.3", s.Tau)
	}
	if s.CacheMaxEntries != 1000 {
		t.Errorf("CacheMaxEntries = %d, want 1000", s.CacheMaxEntries)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	os.Chdir(dir)

	os.Setenv("VDJFIX_RESOLVER_FUZZYSEARCH", "false")
	os.Setenv("VDJFIX_LIBRARY_ROOT", "/music")
	defer os.Unsetenv("VDJFIX_RESOLVER_FUZZYSEARCH")
	defer os.Unsetenv("VDJFIX_LIBRARY_ROOT")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.FuzzySearch {
		t.Error("expected env override to disable fuzzy search")
	}
	if s.LibraryRoot != "/music" {
		t.Errorf("LibraryRoot = %q, want /music", s.LibraryRoot)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vdjfix.yaml")
	content := "library:\n  root: /archive\nresolver:\n  tau: 0.5\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.LibraryRoot != "/archive" {
		t.Errorf("LibraryRoot = %q, want /archive", s.LibraryRoot)
	}
	if s.Tau != 0.5 {
		t.Errorf("Tau = %v, want 0.5", s.Tau)
	}
}
