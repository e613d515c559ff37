// Package words tokenizes a filename and its parent folders into the
// categorized word sets the similarity scorer and matcher operate on.
package words

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/franz/vdjfix/internal/textnorm"
)

// Bundle holds every word set extracted for one filename+path pair.
type Bundle struct {
	FolderWords []string
	ArtistWords []string
	SongWords   []string
	FileWords   []string
	AllWords    []string

	MeaningfulWords       []string
	MeaningfulArtistWords []string
	MeaningfulSongWords   []string
}

// stopWords is the fixed multilingual set of uninformative tokens (§4.2),
// stored pre-normalized through the "word" profile so membership checks
// compare like with like.
var stopWords = buildStopWords([]string{
	"remix", "mix", "dj", "feat", "ft", "music", "song", "mp3", "m4a", "flac", "wmv",
	"the", "a", "an", "and", "or", "of", "in", "on", "at", "to", "for", "with", "by",
	"official", "video", "hd", "version", "edit", "extended", "radio", "clean",
	"original", "acoustic", "live", "studio", "album", "single", "ep", "lp",
	"ve", "ile", "için", "olan", "gibi", "kadar", "sonra", "önce", "müzik", "şarkı", "parça",
	"mv", "clip", "trailer", "teaser", "preview", "behind", "scenes", "making", "of",
})

func buildStopWords(raw []string) map[string]bool {
	set := make(map[string]bool, len(raw))
	for _, w := range raw {
		set[textnorm.Normalize(w, textnorm.Word)] = true
	}
	return set
}

// IsStopWord reports whether a word, already normalized under the "word"
// profile, is in the stop-word set.
func IsStopWord(normalizedWord string) bool {
	return stopWords[normalizedWord]
}

// Extract builds the full word bundle for name (the file's final path
// component, with extension) and path (its absolute path).
func Extract(name, path string) Bundle {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	folder := relevantFolder(path)
	artistSeg, songSeg := splitArtistTitle(stem)

	b := Bundle{
		FolderWords: tokenizeSegment(folder),
		ArtistWords: tokenizeSegment(artistSeg),
		SongWords:   tokenizeSegment(songSeg),
		FileWords:   tokenizeSegment(stem),
	}
	b.AllWords = append(append([]string{}, b.FolderWords...), b.FileWords...)
	b.MeaningfulWords = dropStopWords(b.AllWords)
	b.MeaningfulArtistWords = dropStopWords(b.ArtistWords)
	b.MeaningfulSongWords = dropStopWords(b.SongWords)
	return b
}

// relevantFolder returns the immediate parent directory's base name, or ""
// if it is empty, ".", or an absolute-root marker.
func relevantFolder(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(dir)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return ""
	}
	// strip a trailing volume separator such as "C:" on Windows-style paths
	base = strings.TrimSuffix(base, ":")
	return base
}

// splitArtistTitle applies the numeric-prefix rule: "01 - Artist - Title"
// puts "Artist" in the artist segment rather than treating "01" as the
// artist. Segments are rejoined with "-" so embedded hyphens in the title
// survive whitespace tokenization intact.
func splitArtistTitle(stem string) (artist, title string) {
	parts := strings.Split(stem, "-")
	if len(parts) >= 3 && isNumeric(strings.TrimSpace(parts[0])) {
		return parts[1], strings.Join(parts[2:], "-")
	}
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], "-")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// tokenizeSegment splits on whitespace, drops tokens of length <=1, and
// normalizes each survivor through the "word" profile.
func tokenizeSegment(segment string) []string {
	fields := strings.Fields(segment)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) <= 1 {
			continue
		}
		normalized := textnorm.Normalize(f, textnorm.Word)
		if normalized == "" {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

func dropStopWords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !IsStopWord(t) {
			out = append(out, t)
		}
	}
	return out
}
