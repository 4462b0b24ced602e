// Package tripfile is the JSON shape of a trip and its candidate pool, shared
// by the HTTP API, the planning CLI and the database seeder.
package tripfile

import (
	"encoding/json"
	"fmt"
	"io"
	"itinerary-planner-service/internal/domain"
	"os"
	"strings"
)

type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Meals struct {
	Breakfast *Window `json:"breakfast,omitempty"`
	Lunch     *Window `json:"lunch,omitempty"`
	Dinner    *Window `json:"dinner,omitempty"`
}

type Destination struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Address  string   `json:"address"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	PhotoURL string   `json:"photoUrl,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
}

type Trip struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	DepartureDate string        `json:"departureDate"`
	TotalNights   int           `json:"totalNights"`
	Mode          string        `json:"mode"`
	Intensity     int           `json:"intensity"`
	Meals         *Meals        `json:"meals,omitempty"`
	Destinations  []Destination `json:"destinations"`
}

// Load reads and decodes a trip file.
func Load(path string) (*Trip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load trip file: open %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (*Trip, error) {
	var t Trip
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode trip: %v", domain.ErrInvalidTrip, err)
	}
	return &t, nil
}

// ToDomain validates the payload and converts it. Missing meal windows take
// the defaults; destinations without an id get their 1-based position.
func (t *Trip) ToDomain() (domain.TripParameters, []*domain.Destination, error) {
	var params domain.TripParameters

	dep, err := domain.ParseDate(t.DepartureDate)
	if err != nil {
		return params, nil, err
	}
	mode, err := domain.ParseTransportMode(t.Mode)
	if err != nil {
		return params, nil, err
	}
	meals, err := t.Meals.toDomain()
	if err != nil {
		return params, nil, err
	}

	params = domain.TripParameters{
		TripID:        strings.TrimSpace(t.ID),
		Title:         t.Title,
		DepartureDate: dep,
		TotalNights:   t.TotalNights,
		Mode:          mode,
		Intensity:     t.Intensity,
		Meals:         meals,
	}
	if err := params.Validate(); err != nil {
		return domain.TripParameters{}, nil, err
	}

	dests := make([]*domain.Destination, 0, len(t.Destinations))
	seen := make(map[string]struct{}, len(t.Destinations))
	for i, d := range t.Destinations {
		dd, err := d.toDomain()
		if err != nil {
			return domain.TripParameters{}, nil, fmt.Errorf("destination #%d: %w", i+1, err)
		}
		if dd.ID == "" {
			dd.ID = fmt.Sprintf("%d", i+1)
		}
		if _, ok := seen[dd.ID]; ok {
			return domain.TripParameters{}, nil, fmt.Errorf("%w: duplicate destination id %q", domain.ErrInvalidTrip, dd.ID)
		}
		seen[dd.ID] = struct{}{}
		dests = append(dests, dd)
	}

	return params, dests, nil
}

func (d Destination) toDomain() (*domain.Destination, error) {
	cat, err := domain.ParseCategory(d.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTrip, err)
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: destination name is required", domain.ErrInvalidTrip)
	}
	if (d.Lat == nil) != (d.Lon == nil) {
		return nil, fmt.Errorf("%w: %q needs both lat and lon", domain.ErrInvalidTrip, name)
	}

	out := &domain.Destination{
		ID:       strings.TrimSpace(d.ID),
		Name:     name,
		Category: cat,
		Address:  d.Address,
		PhotoURL: d.PhotoURL,
		Rating:   d.Rating,
	}
	if d.Lat != nil {
		c := domain.Coordinates{Lat: *d.Lat, Lon: *d.Lon}
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %q has out of range coordinates", domain.ErrInvalidTrip, name)
		}
		out.Coordinates = &c
	}
	if out.Address == "" && out.Coordinates == nil {
		return nil, fmt.Errorf("%w: %q has neither address nor coordinates", domain.ErrInvalidTrip, name)
	}
	return out, nil
}

func (m *Meals) toDomain() (domain.MealWindows, error) {
	out := domain.DefaultMealWindows()
	if m == nil {
		return out, nil
	}
	for _, w := range []struct {
		in  *Window
		dst *domain.ClockWindow
	}{
		{m.Breakfast, &out.Breakfast},
		{m.Lunch, &out.Lunch},
		{m.Dinner, &out.Dinner},
	} {
		if w.in == nil {
			continue
		}
		cw, err := domain.ParseClockWindow(w.in.Start, w.in.End)
		if err != nil {
			return domain.MealWindows{}, err
		}
		*w.dst = cw
	}
	return out, nil
}
