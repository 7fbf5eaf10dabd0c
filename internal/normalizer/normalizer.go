// Package normalizer turns a free-form Vietnamese address fragment into the
// two forms the rest of the engine works with: a cleaned, human-legible
// string (admin prefixes stripped, numbers canonicalized) and a normalized
// key used only for matching (lower-case, unaccented, [a-z0-9 ] only).
package normalizer

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// replacementTable covers the common spellings, abbreviation dots and OCR
// corruptions of the eight administrative-level words, plus punctuation.
// Order matters: longer / more specific forms are listed before their
// prefixes so the prefix never shadows a more specific match (e.g. "TP."
// before "TP ").
var replacementTable = []string{
	"Thành phố trực thuộc trung ương", "Thành Phố Trực Thuộc Trung Ương", "thành phố trực thuộc trung ương",
	"Thành phố", "THÀNH PHỐ", "thành phố",
	"Thanh pho", "THANH PHO", "thanh pho",
	"T.Phố", "T.phố", "T phố",
	"TP.", "Tp.", "tp.",
	"TP ", "Tp ", "tp ",
	"Tỉnh", "TỈNH", "tỉnh",
	"Tinh", "TINH", "tinh",
	"T.",
	"Quận", "QUẬN", "quận",
	"Quan", "QUAN", "quan",
	"Q.", "q.",
	"Huyện", "HUYỆN", "huyện",
	"Huyen", "HUYEN", "huyen",
	"H.", "h.",
	"Thị trấn", "THỊ TRẤN", "thị trấn",
	"Thi tran", "THI TRAN", "thi tran",
	"TT.", "Tt.", "tt.",
	"Thị xã", "THỊ XÃ", "thị xã",
	"Thi xa", "THI XA", "thi xa",
	"TX.", "Tx.", "tx.",
	"Phường", "PHƯỜNG", "phường",
	"Phuong", "PHUONG", "phuong",
	"P.", "p.",
	"Xã", "XÃ", "xã",
	"Xa", "XA", "xa",
	"X.", "x.",
	// Punctuation to spaces.
	",", ";", "/", "-", "_", "(", ")", ":",
}

// leadingAdminWord strips a single leading administrative indicator up to
// the first whitespace boundary, e.g. "Xã Foo, Huyện Bar" -> "Foo, Huyện Bar".
var leadingAdminWord = regexp.MustCompile(`(?i)^\s*(thanh\s*pho|tp\.?|tinh|quan|q\.?|huyen|h\.?|thi\s*tran|tt\.?|thi\s*xa|tx\.?|phuong|p\.?|xa|x\.?)\s+`)

// numberedSubunit rewrites "P3", "Phường 3", "P.3", "Q7", "Quận 7" style
// numbered wards/districts down to the bare digits.
var numberedSubunit = regexp.MustCompile(`(?i)\b(p|ph|phuong|phường|q|quan|quận)\.?\s*(\d{1,3})\b`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Clean applies the fixed replacement table, strips a leading administrative
// word, canonicalizes numbered subunits, and collapses whitespace. It is a
// pure function: identical input always yields identical output.
func Clean(raw string) string {
	s := raw

	// Numbered subunits must be rewritten before the admin words they embed
	// are replaced by blanks, otherwise "Phường 3" loses its digit context.
	s = numberedSubunit.ReplaceAllString(s, " $2 ")

	for _, from := range replacementTable {
		s = strings.ReplaceAll(s, from, " ")
	}

	s = leadingAdminWord.ReplaceAllString(s, "")

	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// đ/Đ doesn't decompose under NFD like the other marked vowels, so it needs
// an explicit substitution before StripDiacritics runs.
var diacriticReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

var nonAlnumSpace = regexp.MustCompile(`[^a-z0-9 ]`)

// Normalize lower-cases s, folds every Vietnamese diacritic to its ASCII
// base, and drops any rune outside [a-z0-9 ]. It is pure, deterministic and
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	lowered = diacriticReplacer.Replace(lowered)
	folded := StripDiacritics(lowered)

	// Belt-and-suspenders pass: any rune NFD-stripping didn't resolve
	// (rare OCR artifacts, full-width punctuation) gets ASCII-transliterated
	// before the final filter, so normalize() never silently drops a whole
	// word just because one rune in it survived accent-stripping.
	if containsNonASCII(folded) {
		folded = strings.ToLower(unidecode.Unidecode(folded))
	}

	cleaned := nonAlnumSpace.ReplaceAllString(folded, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(cleaned, " "))
}

func containsNonASCII(s string) bool {
	for _, r := range s {
		if r > 0x7f {
			return true
		}
	}
	return false
}
