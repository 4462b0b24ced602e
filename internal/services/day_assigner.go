package services

import (
	"itinerary-planner-service/internal/domain"
	"slices"
)

// AssignDays spreads a hotel's destinations over the dates of its stay.
//
// Destinations are ordered by category priority, then by their position in
// members. Each goes to the least-loaded date still below the cap
// min(ceil(total/days), dailyCap), earliest date on ties. When every date is
// at the cap the least-loaded date takes it anyway.
//
// It returns one DayPlan per date and the number of dates that ended above
// dailyCap.
func AssignDays(hotel *domain.Hotel, members []*domain.Destination, dailyCap int) ([]*domain.DayPlan, int) {
	if hotel == nil || hotel.Nights <= 0 {
		return nil, 0
	}

	days := make([]*domain.DayPlan, hotel.Nights)
	for i := range days {
		date := domain.AddDays(hotel.StayStart, i)
		days[i] = &domain.DayPlan{
			Date:            date,
			Hotel:           hotel.Name,
			FirstDayAtHotel: i == 0,
		}
		if hotel.Coordinates != nil {
			days[i].HotelCoordinates = *hotel.Coordinates
		}
	}

	type placed struct {
		d   *domain.Destination
		idx int
	}
	order := make([]placed, len(members))
	for i, d := range members {
		order[i] = placed{d: d, idx: i}
	}
	slices.SortFunc(order, func(a, b placed) int {
		if pa, pb := a.d.Category.Priority(), b.d.Category.Priority(); pa != pb {
			return pa - pb
		}
		return a.idx - b.idx
	})

	dailyCap = max(1, dailyCap)
	total := len(order)
	limit := min((total+len(days)-1)/len(days), dailyCap)

	for _, p := range order {
		day := leastLoaded(days, limit)
		if day == nil {
			day = leastLoaded(days, -1)
		}
		date := day.Date
		p.d.VisitDate = &date
		day.Stops = append(day.Stops, p.d)
	}

	overflowed := 0
	for _, day := range days {
		if day.Count() > dailyCap {
			overflowed++
		}
	}

	return days, overflowed
}

// leastLoaded returns the earliest date with the fewest stops among those
// below limit. A negative limit means no limit.
func leastLoaded(days []*domain.DayPlan, limit int) *domain.DayPlan {
	var best *domain.DayPlan
	for _, d := range days {
		if limit >= 0 && d.Count() >= limit {
			continue
		}
		if best == nil || d.Count() < best.Count() {
			best = d
		}
	}
	return best
}
