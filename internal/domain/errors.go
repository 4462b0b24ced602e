package domain

import "errors"

var (
	// A run cannot produce a meaningful itinerary (no lodging with coordinates, no nights).
	ErrInsufficientData = errors.New("insufficient data to plan")
	ErrInvalidTrip      = errors.New("invalid trip parameters")
	ErrTripNotFound     = errors.New("trip not found")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrRunSuperseded    = errors.New("planning run superseded by a newer run")
)
