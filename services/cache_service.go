package services

import (
	"breadstation_server/config"
	"breadstation_server/structs"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// Cache key prefixes
const (
	catalogPrefix   = "catalog:"
	geocodePrefix   = "geocode:"
	cartPrefix      = "cart:"
	rateLimitPrefix = "ratelimit:"
)

// Cache is the read-through cache used by the catalog and delivery services
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// CacheService provides Redis caching with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(cfg.Cache),
	}
}

// getRedisClient returns a singleton Redis client with proper connection pooling
func getRedisClient(cfg *structs.CacheConfig) *redis.Client {
	redisOnce.Do(func() {
		if cfg == nil {
			cfg = config.GetConfig().Cache
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,

			PoolSize:        cfg.PoolSize,
			MinIdleConns:    cfg.MinIdleConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			PoolTimeout:     cfg.PoolTimeout,
			ConnMaxIdleTime: cfg.IdleTimeout,

			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,

			MaxRetries:      cfg.MaxRetries,
			MinRetryBackoff: cfg.MinRetryBackoff,
			MaxRetryBackoff: cfg.MaxRetryBackoff,
		})
	})
	return redisClient
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if cs.client != nil {
		return cs.client.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error) error {
	const maxRetries = 3
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == maxRetries || !isRetryableRedisError(err) {
			break
		}

		backoff := min(100*(1<<attempt), 2000) // ms
		var buf [4]byte
		if _, err := rand.Read(buf[:]); err == nil {
			backoff = backoff/2 + int(binary.BigEndian.Uint32(buf[:])%uint32(backoff/2+1))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(backoff) * time.Millisecond):
		}
	}

	if errors.Is(lastErr, redis.Nil) {
		return lastErr
	}
	return fmt.Errorf("redis operation failed: %w", lastErr)
}

// isRetryableRedisError reports network trouble; a missing key is never retried
func isRetryableRedisError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	})
}

// Get returns the stored value, or "" and false when the key is missing
func (cs *CacheService) Get(ctx context.Context, key string) (string, bool, error) {
	var result string
	var found bool

	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		result, found = val, true
		return nil
	})

	return result, found, err
}

func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, keys...).Err()
	})
}

func (cs *CacheService) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, found, err := cs.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (cs *CacheService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	return cs.withRetry(ctx, func() error {
		iter := cs.client.Scan(ctx, 0, pattern, 100).Iterator()
		batch := make([]string, 0, 100)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == cap(batch) {
				if err := cs.client.Del(ctx, batch...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(batch) > 0 {
			return cs.client.Del(ctx, batch...).Err()
		}
		return nil
	})
}

// IncrementRateLimit atomically increments a fixed-window counter
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, bucket string, window time.Duration) (int, time.Duration, error) {
	key := rateLimitPrefix + bucket + ":" + ip

	var count int64
	var ttl time.Duration
	err := cs.withRetry(ctx, func() error {
		pipe := cs.client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttlCmd := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		count = incr.Val()
		ttl = ttlCmd.Val()
		return nil
	})

	return int(count), ttl, err
}

// GetRateLimitStatus returns the current counter for debugging
func (cs *CacheService) GetRateLimitStatus(ctx context.Context, ip, bucket string) (map[string]any, error) {
	key := rateLimitPrefix + bucket + ":" + ip

	val, found, err := cs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]any{"count": 0, "ttl": 0}, nil
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit value: %w", err)
	}
	ttl, err := cs.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	return map[string]any{"count": count, "ttl": int(ttl.Seconds())}, nil
}

// InvalidateCatalog drops every cached catalog read. Called after any admin
// mutation or import.
func (cs *CacheService) InvalidateCatalog(ctx context.Context) error {
	if err := cs.DeletePattern(ctx, catalogPrefix+"*"); err != nil {
		cs.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
		return err
	}
	cs.logger.Debug("Catalog cache invalidated")
	return nil
}

func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	})
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

func (cs *CacheService) ClearAll(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.FlushDB(ctx).Err()
	})
}

// noopCache is used when no Redis is configured and in tests
type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (noopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (noopCache) DeletePattern(context.Context, string) error { return nil }

// cached reads key through cache, loading and storing it on a miss. Cache
// failures are logged and never fail the read.
func cached[T any](ctx context.Context, cache Cache, logger *gecho.Logger, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var value T
	if hit, err := cache.GetJSON(ctx, key, &value); err != nil {
		logger.Warn("Cache read failed", gecho.Field("key", key), gecho.Field("error", err))
	} else if hit {
		return value, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.Warn("Cache write failed", gecho.Field("key", key), gecho.Field("error", err))
	}
	return value, nil
}
