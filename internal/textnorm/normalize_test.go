package textnorm

import "testing"

func TestWordProfileTurkish(t *testing.T) {
	cases := map[string]string{
		"Çelik":    "celik",
		"Ateşteyim": "atesteyim",
		"Ömer Şık":  "omer_sik",
	}
	for in, want := range cases {
		got := Normalize(in, Word)
		if got != want {
			t.Errorf("Normalize(%q, Word) = %q, want %q", in, got, want)
		}
	}
}

func TestFileNameProfileKeepsSpacesAndCaseFold(t *testing.T) {
	got := Normalize("Tarkan - Yolla!", FileName)
	want := "tarkan - yolla!"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSearchTermDropsSpecialChars(t *testing.T) {
	got := Normalize("Dr. Alban - Away!!", SearchTerm)
	want := "dr alban away"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{"Çelik - Ateşteyim (10).mp3", "  multiple   spaces  ", "MiXeD Case_Name"}
	for _, profile := range []Options{Word, FileName, Path, SearchTerm} {
		for _, in := range inputs {
			once := Normalize(in, profile)
			twice := Normalize(once, profile)
			if once != twice {
				t.Errorf("not idempotent for %+v: %q -> %q -> %q", profile, in, once, twice)
			}
		}
	}
}

func TestWhitespaceCollapse(t *testing.T) {
	got := Normalize("a    b\t\tc", FileName)
	if got != "a b c" {
		t.Errorf("got %q", got)
	}
}
