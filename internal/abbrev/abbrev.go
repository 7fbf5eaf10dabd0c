// Package abbrev holds the fixed short-form -> canonical-name table
// ("HN" -> "Hà Nội", "TPHCM" -> "Hồ Chí Minh") consulted by the resolver
// before it asks the ranker to match a province-level candidate.
//
// Lookup is case-sensitive by design, matching the source this engine was
// distilled from; every other matching path in this engine is
// case-insensitive (normalize() lower-cases), so an all-lowercase key like
// "hn" will not hit the table even though "HN" does. This asymmetry is
// intentional, not an oversight — see DESIGN.md.
package abbrev

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// MaxSubstituteLength is the longest candidate substring the resolver will
// even attempt to look up here; longer substrings are presumed to already
// be full names.
const MaxSubstituteLength = 9

// Table is a fixed, immutable abbr -> full mapping built once at startup.
type Table struct {
	entries map[string]string
}

// builtinEntries seeds the table with the corrections carried over from the
// reference implementation's typo/abbreviation dictionary, supplementing
// the minimal illustrative set a bare reading of the spec would produce.
var builtinEntries = map[string]string{
	"HN":     "Hà Nội",
	"HCM":    "Hồ Chí Minh",
	"TPHCM":  "Hồ Chí Minh",
	"TP.HCM": "Hồ Chí Minh",
	"SG":     "Hồ Chí Minh",
	"HP":     "Hải Phòng",
	"ĐN":     "Đà Nẵng",
	"DN":     "Đà Nẵng",
	"CT":     "Cần Thơ",
	"TTH":    "Thừa Thiên Huế",
	"BR-VT":  "Bà Rịa - Vũng Tàu",
	"BRVT":   "Bà Rịa - Vũng Tàu",
	"KH":     "Khánh Hòa",
	"BD":     "Bình Dương",
	"BĐ":     "Bình Định",
	"ĐT":     "Đồng Tháp",
	"AG":     "An Giang",
	"PY":     "Phú Yên",
}

// New returns a Table seeded with the builtin corrections.
func New() *Table {
	t := &Table{entries: make(map[string]string, len(builtinEntries))}
	for k, v := range builtinEntries {
		t.entries[k] = v
	}
	return t
}

// LoadFile merges a `abbr,full` CSV into t, one entry per line. Later
// entries win over earlier ones, including the builtins.
func LoadFile(t *Table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open abbreviations file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			continue
		}
		t.entries[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read abbreviations file: %w", err)
	}
	return nil
}

// Expand returns the full form for s if s is short enough and matches an
// entry exactly (case-sensitive); otherwise it returns s unchanged.
func (t *Table) Expand(s string) string {
	if len([]rune(s)) > MaxSubstituteLength {
		return s
	}
	if full, ok := t.entries[s]; ok {
		return full
	}
	return s
}
