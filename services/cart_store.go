package services

import (
	"breadstation_server/cart"
	"breadstation_server/lib"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RedisCartStore keeps cart sessions in Redis. When an encryption key is set
// the payload is sealed with AES-GCM before it leaves the process.
type RedisCartStore struct {
	cache *CacheService
	key   string
	ttl   time.Duration
}

func NewRedisCartStore(cache *CacheService, encryptionKey string, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{cache: cache, key: encryptionKey, ttl: ttl}
}

func (s *RedisCartStore) Load(ctx context.Context, id string) (*cart.Cart, error) {
	raw, found, err := s.cache.Get(ctx, cartPrefix+id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, cart.ErrSessionNotFound
	}

	payload := []byte(raw)
	if s.key != "" {
		if payload, err = lib.Decrypt(raw, s.key); err != nil {
			// a cart sealed under a rotated key is as good as gone
			return nil, cart.ErrSessionNotFound
		}
	}

	c := cart.New()
	if err := json.Unmarshal(payload, c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	return c, nil
}

func (s *RedisCartStore) Save(ctx context.Context, id string, c *cart.Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}

	value := string(payload)
	if s.key != "" {
		if value, err = lib.Encrypt(payload, s.key); err != nil {
			return fmt.Errorf("seal cart: %w", err)
		}
	}
	return s.cache.Set(ctx, cartPrefix+id, value, s.ttl)
}

func (s *RedisCartStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, cartPrefix+id)
}
