// Package cache wraps Redis for cache-aside reads. A nil *Cache is valid and
// always falls through to the loader.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// NewRedisCache connects to addr, which may be a host:port pair or a
// redis:// URL. It returns nil when addr is empty or the server is unreachable.
func NewRedisCache(addr string) *Cache {
	if addr == "" {
		return nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Warnf("redis: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("redis: %v (continuing without cache)", err)
		_ = client.Close()
		return nil
	}
	log.Info("redis connected successfully")
	return &Cache{client: client}
}

func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Aside fills dest from key, or runs load and stores dest under key for ttl.
// Cache errors never fail the read.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if c == nil || c.client == nil {
		return load()
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warnf("redis get %s: %v", key, err)
	}

	if err := load(); err != nil {
		return err
	}

	encoded, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := c.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		log.Warnf("redis set %s: %v", key, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
