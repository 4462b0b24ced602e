package services

import (
	"itinerary-planner-service/internal/domain"
	"time"
)

// ScheduleStays lays the stays end to end from the departure date:
// each hotel starts the day after the previous one ends.
func ScheduleStays(hotels []*domain.Hotel, departure time.Time) {
	cursor := domain.DateOnly(departure)
	for _, h := range hotels {
		h.StayStart = cursor
		h.StayEnd = domain.AddDays(cursor, h.Nights-1)
		cursor = domain.AddDays(cursor, h.Nights)
	}
}
