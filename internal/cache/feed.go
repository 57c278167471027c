package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/redis/go-redis/v9"
)

// FeedCache caches prompt listings in Redis. Entries are namespaced by a
// generation counter; Invalidate bumps the generation so every cached listing
// is dropped at once without scanning keys. Old generations expire by TTL.
type FeedCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewFeedCache returns a cache storing entries under prefix (default "feed:").
func NewFeedCache(client *redis.Client, prefix string, ttl time.Duration) *FeedCache {
	if prefix == "" {
		prefix = "feed:"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &FeedCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *FeedCache) genKey() string { return c.prefix + "gen" }

func (c *FeedCache) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s%d:%s", c.prefix, gen, key)
}

func (c *FeedCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached listing (nil on miss) together with the generation the
// lookup observed. Pass that generation to Set so a listing read before a
// concurrent invalidation is never stored under the new generation.
func (c *FeedCache) Get(ctx context.Context, key string) ([]*models.Prompt, int64, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	b, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, gen, err
	}
	var out []*models.Prompt
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, gen, err
	}
	for _, p := range out {
		p.Normalize()
	}
	return out, gen, nil
}

// Set stores a listing under the given generation.
func (c *FeedCache) Set(ctx context.Context, key string, gen int64, list []*models.Prompt) error {
	if list == nil {
		list = []*models.Prompt{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.entryKey(gen, key), b, c.ttl).Err()
}

// Invalidate drops every cached listing.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.genKey()).Err()
}
