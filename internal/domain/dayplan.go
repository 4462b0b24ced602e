package domain

import (
	"slices"
	"time"
)

type MealKind string

const (
	MealBreakfast MealKind = "breakfast"
	MealLunch     MealKind = "lunch"
	MealDinner    MealKind = "dinner"
)

// A meal slot on a given day, optionally filled by a planned restaurant.
type MealEvent struct {
	Kind       MealKind
	Start      time.Time
	End        time.Time
	Restaurant string
}

// Represents one calendar date of the itinerary.
// Stops are ordered by scheduled start once the time scheduler has run.
type DayPlan struct {
	Date             time.Time
	Hotel            string
	HotelCoordinates Coordinates
	FirstDayAtHotel  bool
	Stops            []*Destination
	Meals            []MealEvent

	DepartHotelAt *time.Time
	DepartLeg     *TravelLeg
	ReturnHotelAt *time.Time
	ReturnLeg     *TravelLeg
}

// Count is the number of stops assigned to the day.
func (p *DayPlan) Count() int { return len(p.Stops) }

// SortStops orders stops by start time; ties keep their current order.
func (p *DayPlan) SortStops() {
	slices.SortStableFunc(p.Stops, func(a, b *Destination) int {
		switch {
		case a.Start == nil && b.Start == nil:
			return 0
		case a.Start == nil:
			return 1
		case b.Start == nil:
			return -1
		}
		return a.Start.Compare(*b.Start)
	})
}

type WarningKind string

const (
	WarningUnresolved WarningKind = "unresolved_address"
	WarningUnassigned WarningKind = "unassigned_destination"
	WarningOverflow   WarningKind = "intensity_overflow"
	WarningLegOmitted WarningKind = "leg_omitted"
	WarningLateStop   WarningKind = "stop_past_midnight"
)

// Non-fatal condition surfaced alongside a successful run.
type Warning struct {
	Kind        WarningKind
	Destination string
	Message     string
}

// The full output of one planning run.
type Itinerary struct {
	RunID      string
	Trip       TripParameters
	Hotels     []*Hotel
	Days       []*DayPlan
	Warnings   []Warning
	Unresolved int
	Unassigned int
	Overflowed int
	PlannedAt  time.Time
}

// Day returns the plan for date, or nil.
func (it *Itinerary) Day(date time.Time) *DayPlan {
	d := DateOnly(date)
	for _, p := range it.Days {
		if DateOnly(p.Date).Equal(d) {
			return p
		}
	}
	return nil
}
