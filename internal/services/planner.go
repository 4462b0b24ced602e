package services

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"log"
	"math"
	"slices"
	"time"
)

// Planner runs the itinerary pipeline: resolve coordinates, cluster around
// hotels, allocate nights, lay out stays, assign days, schedule times and
// correct for travel. Stages run one after another; each sees the complete
// output of the previous one.
type Planner struct {
	Resolver  *CoordinateResolver
	Distances *DistanceService

	// Shift of the morning block on the first day at each hotel.
	FirstDayOffset time.Duration

	Now func() time.Time
}

func NewPlanner(resolver *CoordinateResolver, distances *DistanceService, firstDayOffset time.Duration) *Planner {
	return &Planner{
		Resolver:       resolver,
		Distances:      distances,
		FirstDayOffset: firstDayOffset,
		Now:            time.Now,
	}
}

// Plan builds an itinerary for trip from the candidate pool. It overwrites the
// scheduling fields of every destination.
//
// It fails with domain.ErrInsufficientData when the trip has no nights or no
// hotel could be located, and with domain.ErrInvalidTrip on bad parameters.
// Unresolvable addresses and routing failures only produce warnings.
func (p *Planner) Plan(ctx context.Context, trip domain.TripParameters, dests []*domain.Destination) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "plan.itinerary")(&err)

	if trip.Meals == (domain.MealWindows{}) {
		trip.Meals = domain.DefaultMealWindows()
	}
	if err := trip.Validate(); err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}
	if trip.Mode == "" {
		trip.Mode = domain.ModeDriving
	}
	trip.DepartureDate = domain.DateOnly(trip.DepartureDate)
	if trip.TotalNights == 0 {
		return nil, fmt.Errorf("plan itinerary: %w: trip has no nights", domain.ErrInsufficientData)
	}

	for _, d := range dests {
		d.ResetSchedule()
	}

	it := &domain.Itinerary{
		RunID: obs.RunID(ctx),
		Trip:  trip,
	}

	resolved, err := p.Resolver.Resolve(ctx, dests)
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}
	for _, d := range resolved.Unresolved {
		it.Unresolved++
		it.Warnings = append(it.Warnings, domain.Warning{
			Kind:        domain.WarningUnresolved,
			Destination: d.Name,
			Message:     fmt.Sprintf("address %q could not be located", d.Address),
		})
	}

	var hotels []*domain.Hotel
	var visits []*domain.Destination
	for _, d := range resolved.Resolved {
		if d.IsHotel() {
			hotels = append(hotels, domain.NewHotel(d))
		} else {
			visits = append(visits, d)
		}
	}
	if len(hotels) == 0 {
		return nil, fmt.Errorf("plan itinerary: %w: no hotel has a known location", domain.ErrInsufficientData)
	}

	table, err := p.distanceTable(ctx, hotels, visits, trip.Mode)
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	clusters := ClusterByHotel(hotels, visits, table)
	retained := AllocateNights(clusters.Hotels, trip.TotalNights)
	clusters.Reassign(hotels, visits, table)
	for _, d := range clusters.Unassigned {
		it.Unassigned++
		it.Warnings = append(it.Warnings, domain.Warning{
			Kind:        domain.WarningUnassigned,
			Destination: d.Name,
			Message:     "no hotel within reach",
		})
	}

	ScheduleStays(retained, trip.DepartureDate)
	it.Hotels = retained

	dailyCap := trip.DailyCap()
	for _, h := range retained {
		days, over := AssignDays(h, clusters.Members[h], dailyCap)
		if over > 0 {
			it.Overflowed += over
			for _, d := range days {
				if d.Count() > dailyCap {
					it.Warnings = append(it.Warnings, domain.Warning{
						Kind: domain.WarningOverflow,
						Message: fmt.Sprintf("%s holds %d stops, above the daily cap of %d",
							d.Date.Format(domain.DateLayout), d.Count(), dailyCap),
					})
				}
			}
		}
		it.Days = append(it.Days, days...)
	}

	for _, day := range it.Days {
		ScheduleTimes(day, trip.Meals, p.FirstDayOffset)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	for _, day := range it.Days {
		it.Warnings = append(it.Warnings, CorrectRoute(ctx, day, p.Distances, trip.Mode, trip.Meals)...)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	slices.SortStableFunc(it.Days, func(a, b *domain.DayPlan) int { return a.Date.Compare(b.Date) })
	it.PlannedAt = p.now()

	log.Printf("run_id=%s trip_id=%s days=%d hotels=%d unresolved=%d unassigned=%d overflowed=%d",
		it.RunID, trip.TripID, len(it.Days), len(it.Hotels), it.Unresolved, it.Unassigned, it.Overflowed)

	return it, nil
}

// distanceTable looks up every destination to hotel leg, in bounded batches.
func (p *Planner) distanceTable(ctx context.Context, hotels []*domain.Hotel, visits []*domain.Destination, mode domain.TransportMode) (_ DistanceTable, err error) {
	defer obs.Time(ctx, "plan.distanceTable")(&err)

	reqs := make([]LegRequest, 0, len(hotels)*len(visits))
	for _, v := range visits {
		for _, h := range hotels {
			reqs = append(reqs, LegRequest{From: *v.Coordinates, To: *h.Coordinates})
		}
	}

	legs := p.Distances.Legs(ctx, reqs, mode)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := make(DistanceTable, len(visits))
	for i := range visits {
		table[i] = make([]float64, len(hotels))
		for j := range hotels {
			leg := legs[i*len(hotels)+j]
			if validLeg(leg) {
				table[i][j] = leg.DistanceKm
			} else {
				table[i][j] = math.NaN()
			}
		}
	}
	return table, nil
}

func (p *Planner) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
