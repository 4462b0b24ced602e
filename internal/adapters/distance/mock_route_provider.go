package distance

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"sync"
)

type MockPair struct {
	From, To domain.Coordinates
	Km       float64
	Minutes  float64
}

// MockRouteProvider answers from a fixed table and fails for unknown pairs.
// Calls counts every lookup so tests can assert on caching.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[[2]domain.Coordinates]MockPair
	Err   error
	Calls int
}

func NewMockRouteProvider(pairs []MockPair) *MockRouteProvider {
	m := make(map[[2]domain.Coordinates]MockPair, len(pairs))
	for _, p := range pairs {
		m[[2]domain.Coordinates{p.From, p.To}] = p
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Route(_ context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.TravelLeg, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++

	if p.Err != nil {
		return domain.TravelLeg{}, p.Err
	}

	r, ok := p.m[[2]domain.Coordinates{from, to}]
	if !ok {
		return domain.TravelLeg{}, fmt.Errorf("missing pair %s -> %s", from.LatLon(), to.LatLon())
	}

	return domain.TravelLeg{From: from, To: to, Mode: mode, DistanceKm: r.Km, DurationMin: r.Minutes}, nil
}

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinates
	Calls map[string]int
}

func NewMockGeocoder(m map[string]domain.Coordinates) *MockGeocoder {
	return &MockGeocoder{m: m, Calls: make(map[string]int)}
}

func (g *MockGeocoder) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls[address]++

	c, ok := g.m[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%w for %q", ErrNoMatch, address)
	}
	return c, nil
}

func (g *MockGeocoder) CallCount(address string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Calls[address]
}
