package services

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"time"
)

// LegSource looks up a batch of legs, returning them in request order.
type LegSource interface {
	Legs(ctx context.Context, reqs []LegRequest, mode domain.TransportMode) []domain.TravelLeg
}

// CorrectRoute annotates a scheduled day with travel legs and pushes stops
// later where travel does not fit.
//
// Stops are walked once in time order: when prev.End + travel is after
// next.Start, next moves forward by the overrun. Earlier stops are never
// revisited. The hotel legs give the depart and return times. A leg whose
// endpoints lack coordinates is left out and reported; the stops around it
// are still kept apart. A stop pushed past midnight is reported too.
//
// Every stop must carry Start and End (ScheduleTimes sets them). A day with an
// unscheduled stop is left without legs.
func CorrectRoute(ctx context.Context, day *domain.DayPlan, legs LegSource, mode domain.TransportMode, meals domain.MealWindows) []domain.Warning {
	day.SortStops()
	day.DepartHotelAt, day.DepartLeg = nil, nil
	day.ReturnHotelAt, day.ReturnLeg = nil, nil
	for _, s := range day.Stops {
		s.IncomingLeg, s.OutgoingLeg = nil, nil
	}
	if len(day.Stops) == 0 {
		return nil
	}
	for _, s := range day.Stops {
		if s.Start == nil || s.End == nil {
			return nil
		}
	}

	hotel := day.HotelCoordinates
	hotelOK := hotel.Valid() && hotel != (domain.Coordinates{})

	// Endpoints are fixed before the fold, so every lookup can go out at once.
	type slot struct {
		ok  bool
		idx int
	}
	var reqs []LegRequest
	ask := func(ok bool, from, to *domain.Coordinates) slot {
		if !ok || from == nil || to == nil {
			return slot{}
		}
		reqs = append(reqs, LegRequest{From: *from, To: *to})
		return slot{ok: true, idx: len(reqs) - 1}
	}

	first, last := day.Stops[0], day.Stops[len(day.Stops)-1]
	depart := ask(hotelOK && first.Resolved(), &hotel, first.Coordinates)
	between := make([]slot, len(day.Stops)-1)
	for i := range between {
		a, b := day.Stops[i], day.Stops[i+1]
		between[i] = ask(a.Resolved() && b.Resolved(), a.Coordinates, b.Coordinates)
	}
	ret := ask(hotelOK && last.Resolved(), last.Coordinates, &hotel)

	var got []domain.TravelLeg
	if len(reqs) > 0 {
		got = legs.Legs(ctx, reqs, mode)
	}

	var warnings []domain.Warning
	omitted := func(from, to string) {
		warnings = append(warnings, domain.Warning{
			Kind:        domain.WarningLegOmitted,
			Destination: to,
			Message:     fmt.Sprintf("no travel leg from %q to %q on %s", from, to, day.Date.Format(domain.DateLayout)),
		})
	}

	if depart.ok {
		leg := got[depart.idx]
		day.DepartLeg = &leg
		first.IncomingLeg = &leg
		at := first.Start.Add(-minutes(leg.DurationMin))
		day.DepartHotelAt = &at
	} else {
		omitted(day.Hotel, first.Name)
	}

	for i, s := range between {
		prev, next := day.Stops[i], day.Stops[i+1]
		travel := time.Duration(0)
		if s.ok {
			leg := got[s.idx]
			prev.OutgoingLeg = &leg
			next.IncomingLeg = &leg
			travel = minutes(leg.DurationMin)
		} else {
			omitted(prev.Name, next.Name)
		}
		if overrun := prev.End.Add(travel).Sub(*next.Start); overrun > 0 {
			shift(next, overrun)
		}
	}

	if ret.ok {
		leg := got[ret.idx]
		day.ReturnLeg = &leg
		last.OutgoingLeg = &leg
		at := last.End.Add(minutes(leg.DurationMin))
		day.ReturnHotelAt = &at
	} else {
		omitted(last.Name, day.Hotel)
	}

	midnight := domain.AddDays(domain.DateOnly(day.Date), 1)
	for _, s := range day.Stops {
		if s.End.After(midnight) {
			warnings = append(warnings, domain.Warning{
				Kind:        domain.WarningLateStop,
				Destination: s.Name,
				Message: fmt.Sprintf("travel pushes %q to end at %s, past the end of %s",
					s.Name, s.End.Format("2006-01-02 15:04"), day.Date.Format(domain.DateLayout)),
			})
		}
	}

	day.Meals = mealEvents(day, meals)
	return warnings
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute)).Round(time.Second)
}
