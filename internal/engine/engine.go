package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/address-parser/internal/abbrev"
	"github.com/address-parser/internal/catalog"
	"github.com/address-parser/internal/fuzzy"
	"github.com/address-parser/internal/guard"
	"github.com/address-parser/internal/memo"
	"github.com/address-parser/internal/normalizer"
	"github.com/address-parser/internal/rank"
	"github.com/address-parser/internal/resolver"
	"go.uber.org/zap"
)

// Result is the engine's public output shape: three catalog canonical
// names, or Province set to the overtime sentinel with District/Ward left
// empty if the deadline elapsed before a resolution was produced.
type Result struct {
	Province string
	District string
	Ward     string
}

// Engine is the assembled system: catalog, fuzzy indexes, abbreviation
// table, memoization caches, and the resolver they all feed, guarded by a
// fixed per-call deadline.
type Engine struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	caches   *memo.Caches
	deadline time.Duration
	logger   *zap.Logger
}

// New builds an Engine from cfg. Catalog loading is the one failure path
// allowed to reach the caller as a plain error; everything downstream
// (fuzzy index construction, cache allocation) only fails on a
// programmer error (a bad cache capacity), which New also surfaces rather
// than panicking.
func New(cfg Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rank.SimilarityThreshold = cfg.SimilarityThreshold

	cat, err := catalog.Load(catalog.Files{
		Provinces: cfg.ProvincesFile,
		Districts: cfg.DistrictsFile,
		Wards:     cfg.WardsFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	levels := buildLevels(cat)

	abbrevTable := abbrev.New()
	if cfg.AbbrevFile != "" {
		if err := abbrev.LoadFile(abbrevTable, cfg.AbbrevFile); err != nil {
			logger.Warn("abbreviation file not loaded, using builtins only", zap.Error(err))
		}
	}

	caches, err := memo.New(memo.Sizes{
		Normalized: cfg.CacheNormalized,
		Distances:  cfg.CacheDistances,
		Cleaned:    cfg.CacheCleaned,
		Resolved:   cfg.CacheResolved,
	})
	if err != nil {
		return nil, fmt.Errorf("build caches: %w", err)
	}

	if dist, err := buildDistributedCache(cfg, logger); err != nil {
		logger.Warn("distributed resolution cache not configured", zap.Error(err))
	} else if dist != nil {
		caches.Distributed = dist
	}

	res := resolver.New(cat, levels, abbrevTable, logger)

	deadline := cfg.Deadline
	if deadline <= 0 {
		deadline = guard.DefaultDeadline
	}

	return &Engine{catalog: cat, resolver: res, caches: caches, deadline: deadline, logger: logger}, nil
}

func buildLevels(cat *catalog.Catalog) *resolver.Levels {
	var provinceNames, districtNames, wardNames []string
	for _, p := range cat.AllProvinces() {
		provinceNames = append(provinceNames, p.Name)
		for _, d := range p.DistrictsOf() {
			districtNames = append(districtNames, d.Name)
			for _, w := range d.WardsOf() {
				wardNames = append(wardNames, w.Name)
			}
		}
	}
	return &resolver.Levels{
		Province: fuzzy.BuildLevel(provinceNames),
		District: fuzzy.BuildLevel(districtNames),
		Ward:     fuzzy.BuildLevel(wardNames),
	}
}

func buildDistributedCache(cfg Config, logger *zap.Logger) (memo.DistributedCache, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	redisCache, err := memo.NewRedisResolutionCache(cfg.RedisURL, logger)
	if err != nil {
		return nil, err
	}
	if cfg.MongoURL == "" {
		return redisCache, nil
	}
	// A Mongo URL alone, without a live *mongo.Database, cannot be turned
	// into an L2 cache handle here: connecting is the caller's job (it
	// already owns the driver's lifecycle elsewhere in a full service).
	// Callers that want the Redis+Mongo hybrid should build the L2 cache
	// themselves via memo.NewMongoResolutionCache and assign
	// Engine.caches.Distributed via SetDistributedCache.
	return redisCache, nil
}

// SetDistributedCache overrides the engine's distributed full-resolution
// cache backend after construction, e.g. with a HybridResolutionCache
// built from a *mongo.Database the caller owns.
func (e *Engine) SetDistributedCache(d memo.DistributedCache) {
	e.caches.Distributed = d
}

// Resolve cleans, tokenizes, and resolves raw under the engine's fixed
// deadline. If the deadline elapses, Province comes back as the overtime
// sentinel and District/Ward are left empty, rather than returning a
// partial result from an abandoned computation.
func (e *Engine) Resolve(ctx context.Context, raw string) Result {
	v, ok := guard.Run(ctx, e.deadline, func() Result {
		return e.resolveNow(raw)
	})
	if !ok {
		return guard.Overtime(func(status string) Result {
			return Result{Province: status}
		})
	}
	return v
}

func (e *Engine) resolveNow(raw string) Result {
	res := e.caches.Resolve(raw, func(raw string) memo.Resolution {
		cleaned := e.caches.Clean(raw, normalizer.Clean)
		words := strings.Fields(cleaned)
		out := e.resolver.Resolve(words)
		return memo.Resolution{Province: out.Province, District: out.District, Ward: out.Ward}
	})
	return Result{Province: res.Province, District: res.District, Ward: res.Ward}
}
