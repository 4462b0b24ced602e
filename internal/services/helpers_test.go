package services

import (
	"fmt"
	"itinerary-planner-service/internal/adapters/cache"
	"itinerary-planner-service/internal/adapters/distance"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"testing"
	"time"
)

var june1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(lat, lon float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lon: lon}
}

func dest(name string, cat domain.Category, c *domain.Coordinates) *domain.Destination {
	return &domain.Destination{
		ID:          name,
		Name:        name,
		Category:    cat,
		Address:     name + " address",
		Coordinates: c,
	}
}

func hotel(name string, affinity int) *domain.Hotel {
	h := domain.NewHotel(dest(name, domain.CategoryHotel, at(48.85, 2.35)))
	h.Affinity = affinity
	return h
}

func trip(nights, intensity int) domain.TripParameters {
	return domain.TripParameters{
		TripID:        "trip-1",
		DepartureDate: june1,
		TotalNights:   nights,
		Mode:          domain.ModeWalking,
		Intensity:     intensity,
		Meals:         domain.DefaultMealWindows(),
	}
}

// newTestPlanner wires the pipeline to in-memory collaborators. Routing always
// fails, so every leg is the deterministic great-circle estimate.
func newTestPlanner(geo map[string]domain.Coordinates) (*Planner, *distance.MockRouteProvider) {
	router := distance.NewMockRouteProvider(nil)
	router.Err = fmt.Errorf("HTTP 500")
	return newPlannerWith(geo, router), router
}

func newPlannerWith(geo map[string]domain.Coordinates, router ports.RouteProvider) *Planner {
	resolver := NewCoordinateResolver(distance.NewMockGeocoder(geo), cache.NewMemoryCoordinateStore(), 3, 0)
	legs := NewDistanceService(router, cache.NewMemoryLegCache(time.Hour), 3, 0)
	p := NewPlanner(resolver, legs, 0)
	p.Now = func() time.Time { return june1 }
	return p
}

// checkInvariants asserts the properties every successful run must hold.
func checkInvariants(t *testing.T, it *domain.Itinerary, dests []*domain.Destination) {
	t.Helper()

	sum := 0
	cursor := domain.DateOnly(it.Trip.DepartureDate)
	for _, h := range it.Hotels {
		sum += h.Nights
		if !h.StayStart.Equal(cursor) {
			t.Fatalf("stay of %s starts %v, want %v", h.Name, h.StayStart, cursor)
		}
		if want := domain.AddDays(h.StayStart, h.Nights-1); !h.StayEnd.Equal(want) {
			t.Fatalf("stay of %s ends %v, want %v", h.Name, h.StayEnd, want)
		}
		cursor = domain.AddDays(h.StayEnd, 1)
	}
	if sum != it.Trip.TotalNights {
		t.Fatalf("sum of nights = %d, want %d", sum, it.Trip.TotalNights)
	}
	if len(it.Days) != it.Trip.TotalNights {
		t.Fatalf("len(days) = %d, want %d", len(it.Days), it.Trip.TotalNights)
	}

	stays := make(map[string]*domain.Hotel, len(it.Hotels))
	for _, h := range it.Hotels {
		stays[h.Name] = h
	}

	for _, d := range dests {
		if d.IsHotel() || !d.Resolved() || d.AssignedHotel == "" {
			continue
		}
		h, ok := stays[d.AssignedHotel]
		if !ok {
			t.Fatalf("%s assigned to %q which has no stay", d.Name, d.AssignedHotel)
		}
		if d.VisitDate == nil || !h.Covers(*d.VisitDate) {
			t.Fatalf("%s visit date %v outside stay of %s", d.Name, d.VisitDate, h.Name)
		}
	}

	for _, day := range it.Days {
		for i := 1; i < len(day.Stops); i++ {
			prev, next := day.Stops[i-1], day.Stops[i]
			if prev.End.After(*next.Start) {
				t.Fatalf("%s: %s ends %v after %s starts %v",
					day.Date.Format(domain.DateLayout), prev.Name, prev.End, next.Name, next.Start)
			}
		}
	}
}
