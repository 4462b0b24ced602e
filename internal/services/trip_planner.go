package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"strings"

	"github.com/google/uuid"
)

// TripPlanner ties the pipeline to the record store and the run registry.
type TripPlanner struct {
	Repo    ports.TripRepository
	Planner *Planner
	Runs    *RunRegistry
}

func NewTripPlanner(repo ports.TripRepository, planner *Planner, runs *RunRegistry) *TripPlanner {
	return &TripPlanner{Repo: repo, Planner: planner, Runs: runs}
}

// PlanTrip loads a stored trip, plans it and replaces its stored plan.
// A run overtaken by a newer one for the same trip returns
// domain.ErrRunSuperseded and leaves no trace.
func (s *TripPlanner) PlanTrip(ctx context.Context, tripID string) (*domain.Itinerary, error) {
	if s.Repo == nil {
		return nil, errors.New("plan trip: no trip repository configured")
	}

	ctx, runID, release := s.Runs.Begin(ctx, tripID)
	defer release()

	trip, err := s.Repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("plan trip: get trip: %w", err)
	}
	dests, err := s.Repo.ListDestinations(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("plan trip: list destinations: %w", err)
	}

	it, err := s.Planner.Plan(ctx, *trip, dests)
	if err != nil {
		return nil, s.runError(tripID, runID, err)
	}

	err = s.Runs.Commit(tripID, runID, it, func() error {
		if err := s.Repo.SaveCoordinates(ctx, tripID, dests); err != nil {
			return fmt.Errorf("save coordinates: %w", err)
		}
		if err := s.Repo.ReplacePlan(ctx, tripID, it); err != nil {
			return fmt.Errorf("replace plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	return it, nil
}

// PlanInline plans a trip that is not in the record store. The result is
// kept in the registry under the trip id, generating one when empty.
func (s *TripPlanner) PlanInline(ctx context.Context, trip domain.TripParameters, dests []*domain.Destination) (*domain.Itinerary, error) {
	if strings.TrimSpace(trip.TripID) == "" {
		trip.TripID = uuid.NewString()
	}

	ctx, runID, release := s.Runs.Begin(ctx, trip.TripID)
	defer release()

	it, err := s.Planner.Plan(ctx, trip, dests)
	if err != nil {
		return nil, s.runError(trip.TripID, runID, err)
	}

	if err := s.Runs.Commit(trip.TripID, runID, it, nil); err != nil {
		return nil, fmt.Errorf("plan inline trip: %w", err)
	}
	return it, nil
}

// Latest returns the trip's last committed itinerary.
func (s *TripPlanner) Latest(tripID string) (*domain.Itinerary, error) {
	return s.Runs.Latest(tripID)
}

// A run cancelled because a newer one started reports as superseded.
func (s *TripPlanner) runError(tripID, runID string, err error) error {
	if errors.Is(err, context.Canceled) && !s.Runs.Current(tripID, runID) {
		return fmt.Errorf("plan trip %s: %w", tripID, domain.ErrRunSuperseded)
	}
	return fmt.Errorf("plan trip %s: %w", tripID, err)
}
