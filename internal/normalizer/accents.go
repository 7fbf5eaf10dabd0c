package normalizer

import (
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes Vietnamese combining marks via NFD decomposition
// followed by an Mn-rune filter and NFC recomposition.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

// isMn reports whether r is a nonspacing combining mark (a diacritic).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
