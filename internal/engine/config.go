// Package engine wires the catalog, abbreviation table, fuzzy indexes,
// memoization caches, timeout guard, and resolver into a single Resolve
// call. It is the top-level entry point the rest of this module's callers
// (tests and the cmd/ entrypoints) depend on.
package engine

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is every knob the engine exposes. All fields have defaults that
// match this system's design, so a caller can use DefaultConfig()
// untouched and get correct, conservative behavior.
type Config struct {
	ProvincesFile string `mapstructure:"provinces_file"`
	DistrictsFile string `mapstructure:"districts_file"`
	WardsFile     string `mapstructure:"wards_file"`
	AbbrevFile    string `mapstructure:"abbrev_file"`

	Deadline time.Duration `mapstructure:"deadline"`

	CacheNormalized int `mapstructure:"cache_normalized"`
	CacheDistances  int `mapstructure:"cache_distances"`
	CacheCleaned    int `mapstructure:"cache_cleaned"`
	CacheResolved   int `mapstructure:"cache_resolved"`

	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`

	RedisURL string `mapstructure:"redis_url"`
	MongoURL string `mapstructure:"mongo_url"`
}

// DefaultConfig mirrors this system's mandated defaults: a 90ms deadline,
// the illustrative cache capacities, and an 80% similarity floor. The
// distributed-cache fields are left empty; LoadConfig only fills them in
// when the environment or config file names them, keeping the distributed
// backend opt-in.
func DefaultConfig() Config {
	return Config{
		ProvincesFile:       "data/provinces.csv",
		DistrictsFile:       "data/districts.csv",
		WardsFile:           "data/wards.csv",
		Deadline:            90 * time.Millisecond,
		CacheNormalized:     10_000,
		CacheDistances:      1_000,
		CacheCleaned:        1_000,
		CacheResolved:       1_000,
		SimilarityThreshold: 80.0,
	}
}

// LoadConfig reads an "engine" config file (searched under configPath, if
// given, then ./config and the working directory) and overlays it and the
// environment on top of
// DefaultConfig. A missing config file is not an error: the defaults
// stand on their own.
func LoadConfig(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("engine")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("provinces_file", cfg.ProvincesFile)
	v.SetDefault("districts_file", cfg.DistrictsFile)
	v.SetDefault("wards_file", cfg.WardsFile)
	v.SetDefault("abbrev_file", cfg.AbbrevFile)
	v.SetDefault("deadline", cfg.Deadline)
	v.SetDefault("cache_normalized", cfg.CacheNormalized)
	v.SetDefault("cache_distances", cfg.CacheDistances)
	v.SetDefault("cache_cleaned", cfg.CacheCleaned)
	v.SetDefault("cache_resolved", cfg.CacheResolved)
	v.SetDefault("similarity_threshold", cfg.SimilarityThreshold)
	v.SetDefault("redis_url", cfg.RedisURL)
	v.SetDefault("mongo_url", cfg.MongoURL)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read engine config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode engine config: %w", err)
	}
	return cfg, nil
}
