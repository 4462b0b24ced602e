package cache

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"sync"
	"time"
)

type pairKey struct {
	Mode domain.TransportMode
	A    string
	B    string
}

func newPairKey(from, to domain.Coordinates, mode domain.TransportMode) pairKey {
	return pairKey{Mode: mode, A: coordKey(from), B: coordKey(to)}
}

// Six decimals is roughly 10cm; closer points share a cache entry.
func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

type legCacheEntry struct {
	Leg       domain.TravelLeg
	ExpiresAt time.Time
}

// In-memory cache of routed legs with a per-entry TTL.
type MemoryLegCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	store map[pairKey]legCacheEntry
	now   func() time.Time
}

func NewMemoryLegCache(ttl time.Duration) *MemoryLegCache {
	return &MemoryLegCache{
		ttl:   ttl,
		store: make(map[pairKey]legCacheEntry),
		now:   time.Now,
	}
}

func (c *MemoryLegCache) Get(_ context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.TravelLeg, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.store[newPairKey(from, to, mode)]
	if !ok || c.now().After(it.ExpiresAt) {
		return domain.TravelLeg{}, false, nil
	}
	return it.Leg, true, nil
}

func (c *MemoryLegCache) Set(_ context.Context, leg domain.TravelLeg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[newPairKey(leg.From, leg.To, leg.Mode)] = legCacheEntry{Leg: leg, ExpiresAt: c.now().Add(c.ttl)}
	return nil
}
