// Package fuzzy builds the per-level fuzzy-search structures C4 describes:
// a length-bucketed index of (canonical, normalized) pairs for the cheap
// common case, and an approximate-search trie as the bounded fallback.
package fuzzy

import "github.com/address-parser/internal/normalizer"

// Entry pairs a catalog's canonical spelling with its normalized key.
type Entry struct {
	Canonical  string
	Normalized string
}

// Level is everything C4 builds for one administrative level (province,
// district, or ward): all entries, the same entries bucketed by the
// length of their normalized key, and an approximate trie over them.
// Built once at startup; read-only thereafter, so it's safe to share
// across requests without locking.
type Level struct {
	Entries  []Entry
	ByLength map[int][]Entry
	Trie     *Trie
}

// BuildLevel normalizes every name, and indexes it by length and in the
// trie. A name repeated in names (the same ward name under several
// districts) is indexed once. Distinct names that normalize to the same
// key are kept as separate entries in Entries and ByLength (distinct
// canonical spellings sharing one key is a legitimate catalog state); the
// trie holds one canonical spelling per key, the last one inserted.
func BuildLevel(names []string) *Level {
	lvl := &Level{
		ByLength: make(map[int][]Entry),
		Trie:     NewTrie(),
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		key := normalizer.Normalize(name)
		entry := Entry{Canonical: name, Normalized: key}
		lvl.Entries = append(lvl.Entries, entry)
		lvl.ByLength[len(key)] = append(lvl.ByLength[len(key)], entry)
		lvl.Trie.Insert(key, name)
	}
	return lvl
}

// CandidatesNear returns every indexed entry whose normalized length is
// within +/-2 of length n, the prefilter window C5 uses before scoring.
func (l *Level) CandidatesNear(n int) []Entry {
	var out []Entry
	for d := -2; d <= 2; d++ {
		out = append(out, l.ByLength[n+d]...)
	}
	return out
}
