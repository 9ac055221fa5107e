// Package slug derives URL-safe identifiers for blog posts and resolves
// them to globally unique values against the record store.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordChars  = regexp.MustCompile(`[^\w-]+`)
	hyphenRun     = regexp.MustCompile(`--+`)

	// Decompose accented characters and drop the combining marks, so
	// "Café" becomes "Cafe" before the ASCII cleanup below.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
)

// Generate normalizes free text into a slug: diacritics stripped,
// lowercased, whitespace runs collapsed to single hyphens, non-word
// characters removed, hyphen runs collapsed. It is a pure function and
// idempotent: Generate(Generate(s)) == Generate(s).
func Generate(text string) string {
	s, _, err := transform.String(stripMarks, text)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the
		// raw input and let the character filters below clean it up.
		s = text
	}
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonWordChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return s
}
