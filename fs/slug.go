package fs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts s to a lowercase ASCII identifier usable as a Sphinx
// document name. Accents are folded, path separators and punctuation are
// dropped, and runs of spaces or hyphens become a single hyphen.
// Example: "Guides/Getting Started" → "guidesgetting-started"
func Slugify(s string) string {
	// Chained transformers keep state, so build one per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = nonSlugChars.ReplaceAllString(folded, "")
	folded = slugSeparators.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-_")
}
