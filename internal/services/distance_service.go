package services

import (
	"context"
	"errors"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

var errInvalidLeg = errors.New("route service returned a negative or non-finite leg")

// DistanceService answers travel legs for a transport mode. It never fails:
// any routing problem degrades to the great-circle estimate.
type DistanceService struct {
	Router ports.RouteProvider
	Cache  ports.LegCache

	// Lookups of one stage run in batches of BatchSize with BatchDelay between them.
	BatchSize  int
	BatchDelay time.Duration
}

// LegRequest is one directed lookup.
type LegRequest struct {
	From domain.Coordinates
	To   domain.Coordinates
}

func NewDistanceService(router ports.RouteProvider, cache ports.LegCache, batchSize int, batchDelay time.Duration) *DistanceService {
	return &DistanceService{
		Router:     router,
		Cache:      cache,
		BatchSize:  batchSize,
		BatchDelay: batchDelay,
	}
}

// Leg returns the routed leg, a cached one, or the fallback estimate.
// Fallback estimates are not cached so a recovered backend is used next time.
func (s *DistanceService) Leg(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) domain.TravelLeg {
	if from == to {
		return domain.TravelLeg{From: from, To: to, Mode: mode}
	}

	if s.Cache != nil {
		leg, ok, err := s.Cache.Get(ctx, from, to, mode)
		if err != nil {
			log.Printf("[ROUTING] leg cache read failed mode=%s err=%v", mode, err)
		}
		if ok {
			return leg
		}
	}

	if s.Router == nil {
		return domain.EstimateLeg(from, to, mode)
	}

	leg, err := s.Router.Route(ctx, from, to, mode)
	if err == nil && !validLeg(leg) {
		err = errInvalidLeg
	}
	if err != nil {
		log.Printf("[ROUTING] fallback to great-circle estimate from=%s to=%s mode=%s err=%v",
			from.LatLon(), to.LatLon(), mode, err)
		return domain.EstimateLeg(from, to, mode)
	}

	leg.From, leg.To, leg.Mode, leg.Estimated = from, to, mode, false
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, leg); err != nil {
			log.Printf("[ROUTING] leg cache write failed mode=%s err=%v", mode, err)
		}
	}
	return leg
}

// Legs resolves every request, in bounded batches, and returns the legs
// in request order.
func (s *DistanceService) Legs(ctx context.Context, reqs []LegRequest, mode domain.TransportMode) []domain.TravelLeg {
	out := make([]domain.TravelLeg, len(reqs))
	forEachBatch(ctx, len(reqs), s.BatchSize, s.BatchDelay, func(ctx context.Context, i int) {
		out[i] = s.Leg(ctx, reqs[i].From, reqs[i].To, mode)
	})
	return out
}

func validLeg(l domain.TravelLeg) bool {
	for _, v := range []float64{l.DistanceKm, l.DurationMin} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

// forEachBatch calls fn for 0..n-1, at most size at a time, pausing delay
// between batches. Each batch is a barrier: the next one starts only after
// every call of the current one returned and the pause elapsed, which paces
// requests to rate-limited backends. Once ctx is done no further calls are
// dispatched.
func forEachBatch(ctx context.Context, n, size int, delay time.Duration, fn func(ctx context.Context, i int)) {
	size = max(size, 1)
	for start := 0; start < n; start += size {
		if start > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}

		end := min(start+size, n)
		var g errgroup.Group
		g.SetLimit(size)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				fn(ctx, i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return
		}
	}
}
