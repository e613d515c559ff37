package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/franz/vdjfix/internal/textnorm"
	"github.com/franz/vdjfix/internal/words"
)

// MediaRecord is one catalog entry (§3 data model).
type MediaRecord struct {
	Path           string    `json:"path"`
	Name           string    `json:"name"`
	Stem           string    `json:"stem"`
	NormalizedName string    `json:"normalizedName"`
	Extension      string    `json:"extension"`
	MediaType      MediaType `json:"mediaType"`
	Size           int64     `json:"size"`
	ModifiedTime   time.Time `json:"modifiedTime"`

	IndexedWords []string `json:"indexedWords"`

	FolderWords           []string `json:"folderWords"`
	FileWords             []string `json:"fileWords"`
	ArtistWords           []string `json:"artistWords"`
	SongWords             []string `json:"songWords"`
	AllWords              []string `json:"allWords"`
	MeaningfulWords       []string `json:"meaningfulWords"`
	MeaningfulArtistWords []string `json:"meaningfulArtistWords"`
	MeaningfulSongWords   []string `json:"meaningfulSongWords"`
}

// Bundle adapts a MediaRecord to the words.Bundle shape the similarity
// scorer and matcher consume.
func (r *MediaRecord) Bundle() words.Bundle {
	return words.Bundle{
		FolderWords:           r.FolderWords,
		ArtistWords:           r.ArtistWords,
		SongWords:             r.SongWords,
		FileWords:             r.FileWords,
		AllWords:              r.AllWords,
		MeaningfulWords:       r.MeaningfulWords,
		MeaningfulArtistWords: r.MeaningfulArtistWords,
		MeaningfulSongWords:   r.MeaningfulSongWords,
	}
}

// NewRecord builds a MediaRecord for a file at path, given its extension
// (already validated supported) and filesystem info. Returns (nil, false)
// if the extension is not in the supported table (§4.5 step 2).
func NewRecord(path string, info os.FileInfo) (*MediaRecord, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	mediaType, ok := ClassifyExtension(ext)
	if !ok {
		return nil, false
	}

	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	normalizedName := textnorm.Normalize(stem, textnorm.FileName)

	bundle := words.Extract(name, path)

	r := &MediaRecord{
		Path:                  path,
		Name:                  name,
		Stem:                  stem,
		NormalizedName:        normalizedName,
		Extension:             strings.ToLower(ext),
		MediaType:             mediaType,
		Size:                  info.Size(),
		ModifiedTime:          info.ModTime(),
		IndexedWords:          legacyIndexedWords(path, stem),
		FolderWords:           bundle.FolderWords,
		FileWords:             bundle.FileWords,
		ArtistWords:           bundle.ArtistWords,
		SongWords:             bundle.SongWords,
		AllWords:              bundle.AllWords,
		MeaningfulWords:       bundle.MeaningfulWords,
		MeaningfulArtistWords: bundle.MeaningfulArtistWords,
		MeaningfulSongWords:   bundle.MeaningfulSongWords,
	}
	return r, true
}

// legacyIndexedWords reproduces the source's original tokenization: the
// last two parent-folder names plus the stem, split on "-", tokenized and
// normalized through the "word" profile (§3: "the legacy tokenization").
func legacyIndexedWords(path, stem string) []string {
	parents := lastParentNames(path, 2)
	parts := append(append([]string{}, parents...), strings.Split(stem, "-")...)

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, field := range strings.FieldsFunc(p, func(r rune) bool {
			return r == '_' || r == ' ' || r == '\t'
		}) {
			if len([]rune(field)) <= 1 {
				continue
			}
			normalized := textnorm.Normalize(field, textnorm.Word)
			if normalized != "" {
				out = append(out, normalized)
			}
		}
	}
	return out
}

// lastParentNames returns up to n parent directory base names, nearest
// first, skipping empty/"."/root markers.
func lastParentNames(path string, n int) []string {
	var names []string
	dir := filepath.Dir(path)
	for i := 0; i < n; i++ {
		base := filepath.Base(dir)
		if base == "" || base == "." || base == string(filepath.Separator) {
			break
		}
		names = append(names, base)
		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return names
}
