package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// Contract for retrieving travel distance and duration between two coordinates.
type RouteProvider interface {
	Route(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.TravelLeg, error)
}

// Optional cache of routed legs keyed by mode and endpoints.
type LegCache interface {
	Get(ctx context.Context, from, to domain.Coordinates, mode domain.TransportMode) (domain.TravelLeg, bool, error)
	Set(ctx context.Context, leg domain.TravelLeg) error
}
