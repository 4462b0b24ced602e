package services

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CoordinateResolver turns destination addresses into coordinates, consulting
// the store before the geocoder. Lookup failures are absorbed: the destination
// is reported as unresolved and planning continues without it.
type CoordinateResolver struct {
	Geocoder ports.Geocoder
	Store    ports.CoordinateStore

	BatchSize  int
	BatchDelay time.Duration

	inflight singleflight.Group
}

type ResolveResult struct {
	Resolved   []*domain.Destination
	Unresolved []*domain.Destination
	CacheHits  int
	Geocoded   int
}

func NewCoordinateResolver(geocoder ports.Geocoder, store ports.CoordinateStore, batchSize int, batchDelay time.Duration) *CoordinateResolver {
	return &CoordinateResolver{
		Geocoder:   geocoder,
		Store:      store,
		BatchSize:  batchSize,
		BatchDelay: batchDelay,
	}
}

// Resolve fills in Coordinates on every destination it can. Destinations that
// already carry valid coordinates are kept as they are.
// The only error returned is ctx's, when the run was cancelled mid-stage.
func (r *CoordinateResolver) Resolve(ctx context.Context, dests []*domain.Destination) (_ ResolveResult, err error) {
	defer obs.Time(ctx, "resolve.coordinates")(&err)

	var res ResolveResult

	pending := make([]string, 0, len(dests))
	seen := make(map[string]struct{}, len(dests))
	for _, d := range dests {
		if d.Resolved() {
			continue
		}
		d.Coordinates = nil
		if strings.TrimSpace(d.Address) == "" {
			continue
		}
		if _, ok := seen[d.Address]; ok {
			continue
		}
		seen[d.Address] = struct{}{}
		pending = append(pending, d.Address)
	}

	found := make(map[string]domain.Coordinates, len(pending))

	if r.Store != nil && len(pending) > 0 {
		hits, err := r.Store.GetMany(ctx, pending)
		if err != nil {
			log.Printf("[GEOCODE] cache read failed, geocoding all addresses err=%v", err)
		}
		for a, c := range hits {
			found[a] = c
		}
		res.CacheHits = len(hits)
	}

	misses := make([]string, 0, len(pending))
	for _, a := range pending {
		if _, ok := found[a]; !ok {
			misses = append(misses, a)
		}
	}

	if r.Geocoder != nil {
		var mu sync.Mutex
		forEachBatch(ctx, len(misses), r.BatchSize, r.BatchDelay, func(ctx context.Context, i int) {
			addr := misses[i]
			c, err := r.lookup(ctx, addr)
			if err != nil {
				log.Printf("[GEOCODE] unresolved address=%q err=%v", addr, err)
				return
			}
			mu.Lock()
			found[addr] = c
			res.Geocoded++
			mu.Unlock()
		})
	}

	if err := ctx.Err(); err != nil {
		return ResolveResult{}, fmt.Errorf("resolve coordinates: %w", err)
	}

	for _, d := range dests {
		if !d.Resolved() {
			if c, ok := found[d.Address]; ok {
				d.Coordinates = &c
			}
		}
		if d.Resolved() {
			res.Resolved = append(res.Resolved, d)
		} else {
			res.Unresolved = append(res.Unresolved, d)
		}
	}

	return res, nil
}

// lookup geocodes one address and stores the result before returning it.
// Concurrent lookups of the same address share a single request.
func (r *CoordinateResolver) lookup(ctx context.Context, addr string) (domain.Coordinates, error) {
	v, err, _ := r.inflight.Do(addr, func() (any, error) {
		c, err := r.Geocoder.Geocode(ctx, addr)
		if err != nil {
			return domain.Coordinates{}, err
		}
		if !c.Valid() {
			return domain.Coordinates{}, fmt.Errorf("geocoder returned invalid coordinate %v", c)
		}
		if r.Store != nil {
			if err := r.Store.PutMany(ctx, map[string]domain.Coordinates{addr: c}); err != nil {
				log.Printf("[GEOCODE] cache write failed address=%q err=%v", addr, err)
			}
		}
		return c, nil
	})
	if err != nil {
		return domain.Coordinates{}, err
	}
	return v.(domain.Coordinates), nil
}
