package dto

import "time"

type LegResponse struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	Estimated   bool    `json:"estimated"`
}

type StopResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Lat         *float64     `json:"lat,omitempty"`
	Lon         *float64     `json:"lon,omitempty"`
	Start       *time.Time   `json:"start,omitempty"`
	End         *time.Time   `json:"end,omitempty"`
	IncomingLeg *LegResponse `json:"incoming_leg,omitempty"`
	OutgoingLeg *LegResponse `json:"outgoing_leg,omitempty"`
}

type MealResponse struct {
	Kind       string    `json:"kind"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Restaurant string    `json:"restaurant,omitempty"`
}

type DayResponse struct {
	Date            string         `json:"date"`
	Hotel           string         `json:"hotel"`
	FirstDayAtHotel bool           `json:"first_day_at_hotel"`
	DepartHotelAt   *time.Time     `json:"depart_hotel_at,omitempty"`
	DepartLeg       *LegResponse   `json:"depart_leg,omitempty"`
	ReturnHotelAt   *time.Time     `json:"return_hotel_at,omitempty"`
	ReturnLeg       *LegResponse   `json:"return_leg,omitempty"`
	Stops           []StopResponse `json:"stops"`
	Meals           []MealResponse `json:"meals"`
	DirectionsURL   string         `json:"directions_url,omitempty"`
}

type HotelResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Nights    int    `json:"nights"`
	Affinity  int    `json:"affinity"`
	StayStart string `json:"stay_start"`
	StayEnd   string `json:"stay_end"`
}

type WarningResponse struct {
	Kind        string `json:"kind"`
	Destination string `json:"destination,omitempty"`
	Message     string `json:"message"`
}

type ItineraryResponse struct {
	RunID      string            `json:"run_id"`
	TripID     string            `json:"trip_id"`
	Title      string            `json:"title,omitempty"`
	PlannedAt  time.Time         `json:"planned_at"`
	Hotels     []HotelResponse   `json:"hotels"`
	Days       []DayResponse     `json:"days"`
	Warnings   []WarningResponse `json:"warnings"`
	Unresolved int               `json:"unresolved"`
	Unassigned int               `json:"unassigned"`
	Overflowed int               `json:"overflowed"`
}
