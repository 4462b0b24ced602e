package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// Port: a boundary for trip parameters, candidate pools and materialised plans.
type TripRepository interface {
	GetTrip(ctx context.Context, tripID string) (*domain.TripParameters, error)
	ListDestinations(ctx context.Context, tripID string) ([]*domain.Destination, error)
	// Replace whatever plan was stored for the trip with the given itinerary.
	ReplacePlan(ctx context.Context, tripID string, it *domain.Itinerary) error
	// Write resolved coordinates back onto the candidate pool.
	SaveCoordinates(ctx context.Context, tripID string, dests []*domain.Destination) error
}
