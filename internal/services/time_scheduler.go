package services

import (
	"itinerary-planner-service/internal/domain"
	"time"
)

const minVisit = 60 * time.Minute

// ScheduleTimes gives every stop of day a start and end time around the meal
// windows and rebuilds the day's meal events.
//
// The first restaurant takes lunch and the second dinner; any further ones
// follow dinner back to back. Other stops are split between the morning
// (breakfast end to lunch start) and afternoon (lunch end to dinner start)
// blocks, the afternoon taking the extra one on odd counts. On the first day at
// a hotel the morning block starts arrivalOffset later.
func ScheduleTimes(day *domain.DayPlan, meals domain.MealWindows, arrivalOffset time.Duration) {
	var restaurants, visits []*domain.Destination
	for _, s := range day.Stops {
		s.Start, s.End = nil, nil
		if s.Category == domain.CategoryRestaurant {
			restaurants = append(restaurants, s)
		} else {
			visits = append(visits, s)
		}
	}

	_, breakfastEnd := meals.Breakfast.On(day.Date)
	lunchStart, lunchEnd := meals.Lunch.On(day.Date)
	dinnerStart, dinnerEnd := meals.Dinner.On(day.Date)

	for i, r := range restaurants {
		switch i {
		case 0:
			setTimes(r, lunchStart, lunchEnd)
		case 1:
			setTimes(r, dinnerStart, dinnerEnd)
		default:
			start := dinnerEnd.Add(time.Duration(i-2) * meals.Dinner.Length())
			setTimes(r, start, start.Add(meals.Dinner.Length()))
		}
	}

	morningStart := breakfastEnd
	if day.FirstDayAtHotel && arrivalOffset > 0 {
		morningStart = morningStart.Add(arrivalOffset)
	}

	nMorning := len(visits) / 2
	fillBlock(visits[:nMorning], morningStart, lunchStart)
	fillBlock(visits[nMorning:], lunchEnd, dinnerStart)

	day.SortStops()
	compact(day)
	day.Meals = mealEvents(day, meals)
}

// fillBlock places items back to back from start, each lasting
// max(minVisit, block/len(items)).
func fillBlock(items []*domain.Destination, start, end time.Time) {
	if len(items) == 0 {
		return
	}
	slot := max(minVisit, end.Sub(start)/time.Duration(len(items)))
	cursor := start
	for _, it := range items {
		setTimes(it, cursor, cursor.Add(slot))
		cursor = cursor.Add(slot)
	}
}

// compact pushes stops forward so none starts before the previous one ends.
// Stops must be sorted by start.
func compact(day *domain.DayPlan) {
	for i := 1; i < len(day.Stops); i++ {
		prev, next := day.Stops[i-1], day.Stops[i]
		if prev.End == nil || next.Start == nil {
			continue
		}
		if overrun := prev.End.Sub(*next.Start); overrun > 0 {
			shift(next, overrun)
		}
	}
}

// mealEvents derives the day's meals; lunch and dinner follow the
// restaurant planned for them, if any.
func mealEvents(day *domain.DayPlan, meals domain.MealWindows) []domain.MealEvent {
	bs, be := meals.Breakfast.On(day.Date)
	ls, le := meals.Lunch.On(day.Date)
	ds, de := meals.Dinner.On(day.Date)

	events := []domain.MealEvent{
		{Kind: domain.MealBreakfast, Start: bs, End: be},
		{Kind: domain.MealLunch, Start: ls, End: le},
		{Kind: domain.MealDinner, Start: ds, End: de},
	}

	n := 0
	for _, s := range day.Stops {
		if s.Category != domain.CategoryRestaurant || s.Start == nil {
			continue
		}
		n++
		if n > 2 {
			break
		}
		ev := &events[n]
		ev.Restaurant = s.Name
		ev.Start, ev.End = *s.Start, *s.End
	}
	return events
}

func setTimes(d *domain.Destination, start, end time.Time) {
	d.Start = &start
	d.End = &end
}

func shift(d *domain.Destination, by time.Duration) {
	start := d.Start.Add(by)
	end := d.End.Add(by)
	d.Start, d.End = &start, &end
}
