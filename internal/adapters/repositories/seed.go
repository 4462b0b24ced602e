package repositories

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/tripfile"
)

// TripWriter is implemented by every repository that can store a trip.
type TripWriter interface {
	SaveTrip(ctx context.Context, trip domain.TripParameters, dests []*domain.Destination) error
}

// SeedFromJSON loads a trip file and stores it through w.
func SeedFromJSON(ctx context.Context, w TripWriter, jsonPath string) (string, error) {
	file, err := tripfile.Load(jsonPath)
	if err != nil {
		return "", fmt.Errorf("seed trip: %w", err)
	}

	trip, dests, err := file.ToDomain()
	if err != nil {
		return "", fmt.Errorf("seed trip: %w", err)
	}
	if trip.TripID == "" {
		return "", fmt.Errorf("seed trip: %w: trip id is required", domain.ErrInvalidTrip)
	}

	if err := w.SaveTrip(ctx, trip, dests); err != nil {
		return "", fmt.Errorf("seed trip: %w", err)
	}
	return trip.TripID, nil
}
