package domain

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryHotel      Category = "hotel"
	CategoryActivity   Category = "activity"
	CategoryLandmark   Category = "landmark"
	CategoryRestaurant Category = "restaurant"
)

// ParseCategory accepts the category names case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryHotel, CategoryActivity, CategoryLandmark, CategoryRestaurant:
		return c, nil
	default:
		return "", fmt.Errorf("parse category: unknown category %q", s)
	}
}

// Priority orders categories for thematic spread across days.
// Lower values are placed first; hotels never take part in day assignment.
func (c Category) Priority() int {
	switch c {
	case CategoryActivity:
		return 0
	case CategoryLandmark:
		return 1
	case CategoryRestaurant:
		return 2
	default:
		return 3
	}
}

// Represents a single point of interest from the trip's candidate pool.
//
// Scheduling fields (AssignedHotel onwards) are derived by a planning run and are
// overwritten by every new run.
type Destination struct {
	ID          string
	Name        string
	Category    Category
	Address     string
	Coordinates *Coordinates
	PhotoURL    string
	Rating      *float64

	AssignedHotel string
	VisitDate     *time.Time
	Start         *time.Time
	End           *time.Time
	IncomingLeg   *TravelLeg
	OutgoingLeg   *TravelLeg
}

func (d *Destination) IsHotel() bool { return d.Category == CategoryHotel }

func (d *Destination) Resolved() bool {
	return d.Coordinates != nil && d.Coordinates.Valid()
}

// ResetSchedule clears everything a previous run derived.
func (d *Destination) ResetSchedule() {
	d.AssignedHotel = ""
	d.VisitDate = nil
	d.Start = nil
	d.End = nil
	d.IncomingLeg = nil
	d.OutgoingLeg = nil
}

// Hotel is a lodging destination plus its allocation state.
type Hotel struct {
	*Destination
	Affinity  int
	Nights    int
	StayStart time.Time
	StayEnd   time.Time
}

func NewHotel(d *Destination) *Hotel {
	return &Hotel{Destination: d}
}

// Covers reports whether date falls inside the hotel's stay range.
func (h *Hotel) Covers(date time.Time) bool {
	if h.Nights <= 0 {
		return false
	}
	d := DateOnly(date)
	return !d.Before(h.StayStart) && !d.After(h.StayEnd)
}
