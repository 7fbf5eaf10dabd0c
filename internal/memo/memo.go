// Package memo implements C7: bounded, in-process caches that amortize
// repeated work within a batch. No cache is required for correctness — a
// cache hit must always equal a fresh computation (the cache-transparency
// invariant) — so every in-process cache here is a pure key/value memo with no TTL
// and no invalidation logic beyond simple LRU eviction.
package memo

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolution is the cacheable shape of a full address resolution.
type Resolution struct {
	Province string
	District string
	Ward     string
}

// DistancePair keys the edit-distance cache: two normalized strings
// compared against each other.
type DistancePair struct {
	A, B string
}

// Caches bundles the four memoization layers C7 describes. All four are
// safe for concurrent use (golang-lru/v2 is internally synchronized); they
// hold no locks across a timeout-guard cancellation point, satisfying the
// "abandon without corrupting" requirement of C8.
type Caches struct {
	normalized *lru.Cache[string, string]
	distances  *lru.Cache[DistancePair, int]
	cleaned    *lru.Cache[string, string]
	resolved   *lru.Cache[string, Resolution]

	// Distributed is an optional backend for the full-resolution cache,
	// shared across worker processes. Nil unless configured.
	Distributed DistributedCache
}

// Sizes are the capacities the spec calls "acceptable": ~10k for
// normalized text, ~1k for edit-distance pairs and cleaned addresses. The
// full-resolution cache defaults to the same order of magnitude as the
// other two in-process caches; it is explicitly allowed to be unbounded
// "during a run" but an LRU cap keeps one pathological batch from
// exhausting process memory.
type Sizes struct {
	Normalized int
	Distances  int
	Cleaned    int
	Resolved   int
}

// DefaultSizes matches the spec's illustrative capacities.
func DefaultSizes() Sizes {
	return Sizes{Normalized: 10_000, Distances: 1_000, Cleaned: 1_000, Resolved: 1_000}
}

// New builds the four bounded caches. An error here can only come from an
// invalid (<=0) capacity, which is a programmer error, not a runtime one.
func New(sizes Sizes) (*Caches, error) {
	normalized, err := lru.New[string, string](sizes.Normalized)
	if err != nil {
		return nil, err
	}
	distances, err := lru.New[DistancePair, int](sizes.Distances)
	if err != nil {
		return nil, err
	}
	cleaned, err := lru.New[string, string](sizes.Cleaned)
	if err != nil {
		return nil, err
	}
	resolved, err := lru.New[string, Resolution](sizes.Resolved)
	if err != nil {
		return nil, err
	}
	return &Caches{normalized: normalized, distances: distances, cleaned: cleaned, resolved: resolved}, nil
}

// Normalize wraps fn with the normalized-text cache.
func (c *Caches) Normalize(raw string, fn func(string) string) string {
	if v, ok := c.normalized.Get(raw); ok {
		return v
	}
	v := fn(raw)
	c.normalized.Add(raw, v)
	return v
}

// Clean wraps fn with the cleaned-address cache.
func (c *Caches) Clean(raw string, fn func(string) string) string {
	if v, ok := c.cleaned.Get(raw); ok {
		return v
	}
	v := fn(raw)
	c.cleaned.Add(raw, v)
	return v
}

// Distance wraps fn with the pairwise edit-distance cache. Lookups are
// symmetric: (a, b) and (b, a) share one entry.
func (c *Caches) Distance(a, b string, fn func(string, string) int) int {
	key := DistancePair{A: a, B: b}
	if a > b {
		key = DistancePair{A: b, B: a}
	}
	if v, ok := c.distances.Get(key); ok {
		return v
	}
	v := fn(a, b)
	c.distances.Add(key, v)
	return v
}

// Resolve wraps fn with the full-resolution cache, consulting an optional
// distributed backend first when one is configured.
func (c *Caches) Resolve(raw string, fn func(string) Resolution) Resolution {
	if v, ok := c.resolved.Get(raw); ok {
		return v
	}
	if c.Distributed != nil {
		if v, ok := c.Distributed.Get(raw); ok {
			c.resolved.Add(raw, v)
			return v
		}
	}
	v := fn(raw)
	c.resolved.Add(raw, v)
	if c.Distributed != nil {
		c.Distributed.Set(raw, v)
	}
	return v
}
