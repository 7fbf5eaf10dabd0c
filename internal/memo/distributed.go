package memo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DistributedCache is the optional full-resolution cache backend shared
// across worker processes. Get/Set are context-free on purpose: the
// full-resolution cache sits behind the timeout guard and must never hold
// the guard's deadline hostage on a slow network round trip, so each
// implementation applies its own short, fixed budget per call.
type DistributedCache interface {
	Get(key string) (Resolution, bool)
	Set(key string, value Resolution)
}

// RedisResolutionCache is the L1 distributed cache: fast, ephemeral.
type RedisResolutionCache struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
	budget time.Duration
}

// NewRedisResolutionCache connects to redisURL and verifies reachability
// with a short ping; a dead Redis at startup is a configuration error, not
// a per-request one.
func NewRedisResolutionCache(redisURL string, logger *zap.Logger) (*RedisResolutionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &RedisResolutionCache{
		client: client,
		logger: logger,
		prefix: "addr_resolve:",
		ttl:    24 * time.Hour,
		budget: 20 * time.Millisecond,
	}, nil
}

func (c *RedisResolutionCache) Get(key string) (Resolution, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.budget)
	defer cancel()

	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("redis resolution cache get failed", zap.Error(err))
		}
		return Resolution{}, false
	}

	var r Resolution
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		c.logger.Warn("redis resolution cache holds malformed entry", zap.Error(err))
		return Resolution{}, false
	}
	return r, true
}

func (c *RedisResolutionCache) Set(key string, value Resolution) {
	ctx, cancel := context.WithTimeout(context.Background(), c.budget)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Debug("redis resolution cache set failed", zap.Error(err))
	}
}

// Close releases the underlying connection pool.
func (c *RedisResolutionCache) Close() error { return c.client.Close() }

type mongoResolutionDoc struct {
	Key      string    `bson:"key"`
	Province string    `bson:"province"`
	District string    `bson:"district"`
	Ward     string    `bson:"ward"`
	CachedAt time.Time `bson:"cached_at"`
}

// MongoResolutionCache is the L2 distributed cache: persistent, slower.
// It backs RedisResolutionCache the way the teacher's hybrid cache backs
// its L1 with MongoDB.
type MongoResolutionCache struct {
	collection *mongo.Collection
	logger     *zap.Logger
	budget     time.Duration
}

// NewMongoResolutionCache ensures a unique index on key and returns the
// cache handle.
func NewMongoResolutionCache(db *mongo.Database, logger *zap.Logger) (*MongoResolutionCache, error) {
	collection := db.Collection("address_resolution_cache")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Warn("could not create index on address_resolution_cache", zap.Error(err))
	}

	return &MongoResolutionCache{collection: collection, logger: logger, budget: 50 * time.Millisecond}, nil
}

func (c *MongoResolutionCache) Get(key string) (Resolution, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.budget)
	defer cancel()

	var doc mongoResolutionDoc
	err := c.collection.FindOne(ctx, bson.D{bson.E{Key: "key", Value: key}}).Decode(&doc)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			c.logger.Debug("mongo resolution cache get failed", zap.Error(err))
		}
		return Resolution{}, false
	}
	return Resolution{Province: doc.Province, District: doc.District, Ward: doc.Ward}, true
}

func (c *MongoResolutionCache) Set(key string, value Resolution) {
	ctx, cancel := context.WithTimeout(context.Background(), c.budget)
	defer cancel()

	doc := mongoResolutionDoc{Key: key, Province: value.Province, District: value.District, Ward: value.Ward, CachedAt: time.Now()}
	_, err := c.collection.UpdateOne(ctx,
		bson.D{bson.E{Key: "key", Value: key}},
		bson.D{bson.E{Key: "$set", Value: doc}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		c.logger.Debug("mongo resolution cache set failed", zap.Error(err))
	}
}

// HybridResolutionCache reads L1 (Redis) first and falls back to L2
// (MongoDB), repopulating L1 on an L2 hit. Writes go to both.
type HybridResolutionCache struct {
	l1     *RedisResolutionCache
	l2     *MongoResolutionCache
	logger *zap.Logger
}

// NewHybridResolutionCache combines an L1 and L2 backend.
func NewHybridResolutionCache(l1 *RedisResolutionCache, l2 *MongoResolutionCache, logger *zap.Logger) *HybridResolutionCache {
	return &HybridResolutionCache{l1: l1, l2: l2, logger: logger}
}

func (c *HybridResolutionCache) Get(key string) (Resolution, bool) {
	if r, ok := c.l1.Get(key); ok {
		return r, true
	}
	r, ok := c.l2.Get(key)
	if !ok {
		return Resolution{}, false
	}
	c.l1.Set(key, r)
	return r, true
}

func (c *HybridResolutionCache) Set(key string, value Resolution) {
	c.l1.Set(key, value)
	c.l2.Set(key, value)
}
