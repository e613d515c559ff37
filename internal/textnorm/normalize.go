// Package textnorm canonicalizes strings under named profiles: case folding,
// diacritic folding, punctuation stripping, and whitespace collapse, composed
// from a fixed set of boolean flags so every profile shares one pipeline.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Options controls which pipeline stages run. Each flag means "keep";
// false means the corresponding stage strips or rewrites that aspect.
type Options struct {
	KeepSpaces       bool
	KeepSpecialChars bool
	KeepCase         bool
	KeepDiacritics   bool
}

// Named profiles, composed from the same primitives (§4.1 of the spec this ports).
var (
	Word       = Options{KeepSpaces: false, KeepSpecialChars: false, KeepCase: false, KeepDiacritics: false}
	FileName   = Options{KeepSpaces: true, KeepSpecialChars: true, KeepCase: false, KeepDiacritics: false}
	Path       = Options{KeepSpaces: true, KeepSpecialChars: true, KeepCase: false, KeepDiacritics: false}
	SearchTerm = Options{KeepSpaces: true, KeepSpecialChars: false, KeepCase: false, KeepDiacritics: false}
)

var lowerCaser = cases.Lower(language.Und)

// Normalize runs the six-stage pipeline against s under the given profile.
// Deterministic: identical (s, opts) always yields an identical result.
func Normalize(s string, opts Options) string {
	if !opts.KeepDiacritics {
		s = foldDiacritics(s)
	}
	if !opts.KeepCase {
		s = lowerCaser.String(s)
	}
	if !opts.KeepSpecialChars {
		s = stripSpecialChars(s)
	}
	s = collapseWhitespace(s)
	if !opts.KeepSpaces {
		s = strings.ReplaceAll(s, " ", "_")
	}
	return strings.TrimSpace(s)
}

// foldDiacritics applies NFKC then maps Latin-extended codepoints (Turkish
// and the common Western-European set) onto their plain-ASCII equivalents.
func foldDiacritics(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := diacriticFold[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripSpecialChars replaces every rune that is not alphanumeric or
// whitespace with a single space.
func stripSpecialChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// collapseWhitespace reduces every run of whitespace to a single ASCII space.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// diacriticFold maps Latin-extended codepoints not already resolved by NFKC
// onto their plain-ASCII equivalents. Turkish first (ç ğ ı İ ö ş ü and their
// uppercase forms), then the common Western-European diacritics that show up
// in artist/title metadata pulled from mixed-language libraries.
var diacriticFold = map[rune]rune{
	// Turkish
	'ç': 'c', 'Ç': 'C',
	'ğ': 'g', 'Ğ': 'G',
	'ı': 'i',
	'İ': 'I',
	'ö': 'o', 'Ö': 'O',
	'ş': 's', 'Ş': 'S',
	'ü': 'u', 'Ü': 'U',
	// Western European
	'á': 'a', 'Á': 'A', 'à': 'a', 'À': 'A', 'â': 'a', 'Â': 'A', 'ä': 'a', 'Ä': 'A', 'ã': 'a', 'Ã': 'A', 'å': 'a', 'Å': 'A',
	'é': 'e', 'É': 'E', 'è': 'e', 'È': 'E', 'ê': 'e', 'Ê': 'E', 'ë': 'e', 'Ë': 'E',
	'í': 'i', 'Í': 'I', 'ì': 'i', 'Ì': 'I', 'î': 'i', 'Î': 'I', 'ï': 'i', 'Ï': 'I',
	'ó': 'o', 'Ó': 'O', 'ò': 'o', 'Ò': 'O', 'ô': 'o', 'Ô': 'O', 'õ': 'o', 'Õ': 'O',
	'ú': 'u', 'Ú': 'U', 'ù': 'u', 'Ù': 'U', 'û': 'u', 'Û': 'U',
	'ñ': 'n', 'Ñ': 'N',
	'ý': 'y', 'Ý': 'Y', 'ÿ': 'y',
	'ß': 's',
	'č': 'c', 'Č': 'C', 'ć': 'c', 'Ć': 'C',
	'š': 's', 'Š': 'S',
	'ž': 'z', 'Ž': 'Z',
	'đ': 'd', 'Đ': 'D',
	'ł': 'l', 'Ł': 'L',
	'ø': 'o', 'Ø': 'O',
	'æ': 'a', 'Æ': 'A',
	'œ': 'o', 'Œ': 'O',
}
