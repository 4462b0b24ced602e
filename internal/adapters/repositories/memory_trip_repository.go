package repositories

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"sync"
)

// In-process implementation of the TripRepository port, used when no
// database is configured. Records are copied in and out so planning runs
// never share destination values.
type MemoryTripRepository struct {
	mu    sync.RWMutex
	trips map[string]TripRecord
	dests map[string][]DestinationRecord
	plans map[string]*domain.Itinerary
}

func NewMemoryTripRepository() *MemoryTripRepository {
	return &MemoryTripRepository{
		trips: make(map[string]TripRecord),
		dests: make(map[string][]DestinationRecord),
		plans: make(map[string]*domain.Itinerary),
	}
}

func (m *MemoryTripRepository) SaveTrip(_ context.Context, trip domain.TripParameters, dests []*domain.Destination) error {
	recs := make([]DestinationRecord, 0, len(dests))
	for i, d := range dests {
		recs = append(recs, destinationRecord(trip.TripID, i, d))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.TripID] = tripRecord(trip)
	m.dests[trip.TripID] = recs
	return nil
}

func (m *MemoryTripRepository) GetTrip(_ context.Context, tripID string) (*domain.TripParameters, error) {
	m.mu.RLock()
	rec, ok := m.trips[tripID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get trip %q: %w", tripID, domain.ErrTripNotFound)
	}
	return rec.toDomain()
}

func (m *MemoryTripRepository) ListDestinations(_ context.Context, tripID string) ([]*domain.Destination, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.dests[tripID]
	out := make([]*domain.Destination, 0, len(recs))
	for _, rec := range recs {
		d, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list destinations of %q: %w", tripID, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *MemoryTripRepository) ReplacePlan(_ context.Context, tripID string, it *domain.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[tripID] = it
	return nil
}

func (m *MemoryTripRepository) SaveCoordinates(_ context.Context, tripID string, dests []*domain.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := m.dests[tripID]
	byID := make(map[string]int, len(recs))
	for i, r := range recs {
		byID[r.ID] = i
	}
	for _, d := range dests {
		i, ok := byID[d.ID]
		if !ok || !d.Resolved() {
			continue
		}
		lat, lon := d.Coordinates.Lat, d.Coordinates.Lon
		recs[i].Lat, recs[i].Lon = &lat, &lon
	}
	return nil
}

// Plan returns the last plan written for a trip.
func (m *MemoryTripRepository) Plan(tripID string) (*domain.Itinerary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.plans[tripID]
	return it, ok
}
