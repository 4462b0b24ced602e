package ports

import (
	"context"
	"itinerary-planner-service/internal/domain"
)

// Contract for turning a free-text address into coordinates.
type Geocoder interface {
	// Return the first match for address, or an error when nothing usable came back.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent address -> coordinate store consulted before geocoding.
// Implementations must be safe for concurrent use.
type CoordinateStore interface {
	// Return cached coordinates for the addresses that have an entry.
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	// Store address -> coordinate mappings.
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
