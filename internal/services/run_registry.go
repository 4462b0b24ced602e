package services

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"sync"

	"github.com/google/uuid"
)

type activeRun struct {
	id     string
	cancel context.CancelFunc
}

// RunRegistry makes the newest planning run of a trip the only authoritative
// one. Beginning a run cancels the trip's previous run; a run that is no
// longer current cannot commit.
type RunRegistry struct {
	mu      sync.Mutex
	active  map[string]activeRun
	results map[string]*domain.Itinerary
}

func NewRunRegistry() *RunRegistry {
	return &RunRegistry{
		active:  make(map[string]activeRun),
		results: make(map[string]*domain.Itinerary),
	}
}

// Begin registers a new run for tripID and returns its context and id.
// The returned release func must be called when the run is over.
func (r *RunRegistry) Begin(ctx context.Context, tripID string) (context.Context, string, func()) {
	runID := uuid.NewString()
	runCtx, cancel := context.WithCancel(obs.WithRunID(ctx, runID))

	r.mu.Lock()
	if prev, ok := r.active[tripID]; ok {
		prev.cancel()
	}
	r.active[tripID] = activeRun{id: runID, cancel: cancel}
	r.mu.Unlock()

	release := func() {
		cancel()
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.active[tripID]; ok && cur.id == runID {
			delete(r.active, tripID)
		}
	}
	return runCtx, runID, release
}

// Current reports whether runID is still the trip's latest run.
func (r *RunRegistry) Current(tripID, runID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.active[tripID]
	return ok && cur.id == runID
}

// Commit stores it as the trip's latest itinerary if runID is still current.
// persist, when given, runs under the registry lock so a stale run can never
// overwrite a newer one downstream; its error aborts the commit.
func (r *RunRegistry) Commit(tripID, runID string, it *domain.Itinerary, persist func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.active[tripID]
	if !ok || cur.id != runID {
		return fmt.Errorf("commit run %s for trip %s: %w", runID, tripID, domain.ErrRunSuperseded)
	}

	if persist != nil {
		if err := persist(); err != nil {
			return fmt.Errorf("commit run %s for trip %s: %w", runID, tripID, err)
		}
	}

	r.results[tripID] = it
	return nil
}

// Latest returns the last committed itinerary of a trip.
func (r *RunRegistry) Latest(tripID string) (*domain.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.results[tripID]
	if !ok {
		return nil, fmt.Errorf("trip %s: %w", tripID, domain.ErrPlanNotFound)
	}
	return it, nil
}
