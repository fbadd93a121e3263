// Package cache is a small JSON read cache over Redis, used to shield the
// Paystack API from repeated dashboard reads (bank list, balance). A nil
// *Cache is valid and behaves as a permanent miss, so Redis stays optional.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func New(addr string) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

// GetJSON loads key into out. The second return is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("GetJSON: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("GetJSON: decode: %w", err)
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("SetJSON: encode: %w", err)
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("SetJSON: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
