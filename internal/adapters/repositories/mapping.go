package repositories

import (
	"itinerary-planner-service/internal/domain"
	"time"
)

func tripRecord(t domain.TripParameters) TripRecord {
	return TripRecord{
		ID:             t.TripID,
		Title:          t.Title,
		DepartureDate:  domain.DateOnly(t.DepartureDate),
		TotalNights:    t.TotalNights,
		TransportMode:  string(t.Mode),
		Intensity:      t.Intensity,
		BreakfastStart: domain.FormatClock(t.Meals.Breakfast.Start),
		BreakfastEnd:   domain.FormatClock(t.Meals.Breakfast.End),
		LunchStart:     domain.FormatClock(t.Meals.Lunch.Start),
		LunchEnd:       domain.FormatClock(t.Meals.Lunch.End),
		DinnerStart:    domain.FormatClock(t.Meals.Dinner.Start),
		DinnerEnd:      domain.FormatClock(t.Meals.Dinner.End),
	}
}

func (rec TripRecord) toDomain() (*domain.TripParameters, error) {
	mode, err := domain.ParseTransportMode(rec.TransportMode)
	if err != nil {
		return nil, err
	}

	meals := domain.DefaultMealWindows()
	for _, w := range []struct {
		start, end string
		dst        *domain.ClockWindow
	}{
		{rec.BreakfastStart, rec.BreakfastEnd, &meals.Breakfast},
		{rec.LunchStart, rec.LunchEnd, &meals.Lunch},
		{rec.DinnerStart, rec.DinnerEnd, &meals.Dinner},
	} {
		if w.start == "" || w.end == "" {
			continue
		}
		cw, err := domain.ParseClockWindow(w.start, w.end)
		if err != nil {
			return nil, err
		}
		*w.dst = cw
	}

	// Date columns come back at midnight in the driver's zone; keep the calendar day.
	y, m, d := rec.DepartureDate.Date()
	return &domain.TripParameters{
		TripID:        rec.ID,
		Title:         rec.Title,
		DepartureDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TotalNights:   rec.TotalNights,
		Mode:          mode,
		Intensity:     rec.Intensity,
		Meals:         meals,
	}, nil
}

func destinationRecord(tripID string, position int, d *domain.Destination) DestinationRecord {
	rec := DestinationRecord{
		ID:       d.ID,
		TripID:   tripID,
		Position: position,
		Name:     d.Name,
		Category: string(d.Category),
		Address:  d.Address,
		PhotoURL: d.PhotoURL,
		Rating:   d.Rating,
	}
	if d.Coordinates != nil {
		lat, lon := d.Coordinates.Lat, d.Coordinates.Lon
		rec.Lat, rec.Lon = &lat, &lon
	}
	return rec
}

func (rec DestinationRecord) toDomain() (*domain.Destination, error) {
	cat, err := domain.ParseCategory(rec.Category)
	if err != nil {
		return nil, err
	}
	d := &domain.Destination{
		ID:       rec.ID,
		Name:     rec.Name,
		Category: cat,
		Address:  rec.Address,
		PhotoURL: rec.PhotoURL,
		Rating:   rec.Rating,
	}
	if rec.Lat != nil && rec.Lon != nil {
		d.Coordinates = &domain.Coordinates{Lat: *rec.Lat, Lon: *rec.Lon}
	}
	return d, nil
}
