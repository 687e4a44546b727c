package catalog

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheTTL = 10 * time.Minute

// PriceCache memoizes tier lookups. Redis-backed when a client is configured,
// in-process otherwise. Admin mutations call Invalidate explicitly; there is no
// implicit process-lifetime state.
type PriceCache struct {
	redis *redis.Client

	mu    sync.RWMutex
	local map[int]localEntry
}

type localEntry struct {
	tier      Tier
	expiresAt time.Time
}

func NewPriceCache(client *redis.Client) *PriceCache {
	return &PriceCache{
		redis: client,
		local: make(map[int]localEntry),
	}
}

func cacheKey(id int) string {
	return "price_tier:" + strconv.Itoa(id)
}

func (c *PriceCache) Get(ctx context.Context, id int) (*Tier, bool) {
	if c.redis != nil {
		raw, err := c.redis.Get(ctx, cacheKey(id)).Bytes()
		if err != nil {
			return nil, false
		}
		var t Tier
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, false
		}
		return &t, true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.local[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	t := entry.tier
	return &t, true
}

func (c *PriceCache) Set(ctx context.Context, t *Tier) {
	if c.redis != nil {
		raw, err := json.Marshal(t)
		if err != nil {
			return
		}
		if err := c.redis.Set(ctx, cacheKey(t.ID), raw, cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Int("tier_id", t.ID).Msg("price cache set failed")
		}
		return
	}

	c.mu.Lock()
	c.local[t.ID] = localEntry{tier: *t, expiresAt: time.Now().Add(cacheTTL)}
	c.mu.Unlock()
}

// Invalidate drops a tier from the cache. Called on every admin price/name
// mutation so readers never serve a stale price.
func (c *PriceCache) Invalidate(ctx context.Context, id int) {
	if c.redis != nil {
		if err := c.redis.Del(ctx, cacheKey(id)).Err(); err != nil {
			log.Warn().Err(err).Int("tier_id", id).Msg("price cache invalidate failed")
		}
		return
	}

	c.mu.Lock()
	delete(c.local, id)
	c.mu.Unlock()
}
