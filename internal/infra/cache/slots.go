package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SlotCache keeps computed availability per (stylist, date) so repeated
// lookups for the same day do not recompute against the database. A nil
// client disables caching entirely.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSlotCache(rdb *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{rdb: rdb, ttl: ttl}
}

func key(stylistID uint, date string) string {
	return fmt.Sprintf("slots:%d:%s", stylistID, date)
}

func (c *SlotCache) Get(ctx context.Context, stylistID uint, date string) ([]string, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key(stylistID, date)).Result()
	if err != nil {
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, stylistID uint, date string, slots []string) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	// Best effort: a failed write only costs a recompute.
	c.rdb.Set(ctx, key(stylistID, date), raw, c.ttl)
}

// Invalidate drops the cached day after any booking mutation touches it.
func (c *SlotCache) Invalidate(ctx context.Context, stylistID uint, date string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, key(stylistID, date))
}
