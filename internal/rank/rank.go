// Package rank implements C5, the candidate ranker: given a normalized
// query and a candidate set, it finds the best catalog match within a
// bounded edit distance or reports no match.
package rank

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/address-parser/internal/fuzzy"
	"github.com/address-parser/internal/normalizer"
)

// SimilarityThreshold is the minimum percentage score (inclusive) a
// candidate must clear to be accepted. It defaults to the spec's floor
// but is a var, not a const, so engine startup configuration can raise or
// lower it; nothing in this package ever mutates it after init.
var SimilarityThreshold = 80.0

// scored is one candidate after distance/similarity has been computed.
type scored struct {
	canonical  string
	distance   int
	similarity float64
}

// Against ranks q against an explicit, already-scoped candidate list —
// the shape the resolver uses once a parent (province or district) has
// narrowed the search to a handful of children. No trie is built for this
// path: at the scope sizes this engine ever sees (tens to low hundreds of
// names) a direct scan is already faster than constructing one.
func Against(q string, candidates []fuzzy.Entry) (string, bool) {
	qNorm := normalizer.Normalize(q)

	if canon, ok := exactMatch(qNorm, candidates); ok {
		return canon, true
	}

	near := filterByLength(qNorm, candidates)
	if best, ok := bestOf(qNorm, near); ok {
		return best, true
	}

	// Bounded fallback: distance <= 2 subsumes the length-difference <= 2
	// filter above (an edit distance of d can change length by at most
	// d), so scanning the full candidate list here catches the short
	// strings a 80%-similarity threshold would otherwise reject even
	// though their raw distance is small.
	return bestWithinDistance(qNorm, candidates, 2)
}

// AgainstLevel ranks q against a full, unscoped level built once at
// startup, using its length buckets to avoid scanning every name and its
// trie as the bounded fallback.
func AgainstLevel(q string, level *fuzzy.Level) (string, bool) {
	qNorm := normalizer.Normalize(q)

	near := level.CandidatesNear(len(qNorm))
	if canon, ok := exactMatch(qNorm, near); ok {
		return canon, true
	}
	near = filterByLength(qNorm, near)
	if best, ok := bestOf(qNorm, near); ok {
		return best, true
	}

	matches := level.Trie.SearchSimilar(qNorm, 2)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Canonical, true
}

func exactMatch(qNorm string, candidates []fuzzy.Entry) (string, bool) {
	for _, c := range candidates {
		if c.Normalized == qNorm {
			return c.Canonical, true
		}
	}
	return "", false
}

func filterByLength(qNorm string, candidates []fuzzy.Entry) []fuzzy.Entry {
	qLen := len(qNorm)
	out := make([]fuzzy.Entry, 0, len(candidates))
	for _, c := range candidates {
		diff := len(c.Normalized) - qLen
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 {
			out = append(out, c)
		}
	}
	return out
}

// bestOf implements C5 steps 3-4: score every candidate, keep those at or
// above the similarity threshold, and pick by (distance asc, similarity
// desc).
func bestOf(qNorm string, candidates []fuzzy.Entry) (string, bool) {
	var kept []scored
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(qNorm, c.Normalized)
		maxLen := len(qNorm)
		if len(c.Normalized) > maxLen {
			maxLen = len(c.Normalized)
		}
		if maxLen == 0 {
			continue
		}
		similarity := float64(maxLen-dist) / float64(maxLen) * 100
		if similarity >= SimilarityThreshold {
			kept = append(kept, scored{canonical: c.Canonical, distance: dist, similarity: similarity})
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].distance != kept[j].distance {
			return kept[i].distance < kept[j].distance
		}
		return kept[i].similarity > kept[j].similarity
	})
	return kept[0].canonical, true
}

func bestWithinDistance(qNorm string, candidates []fuzzy.Entry, maxD int) (string, bool) {
	best := ""
	bestDist := maxD + 1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(qNorm, c.Normalized)
		if dist <= maxD && dist < bestDist {
			best = c.Canonical
			bestDist = dist
		}
	}
	if bestDist > maxD {
		return "", false
	}
	return best, true
}
