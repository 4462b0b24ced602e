package domain

// Travel distance and duration between two coordinates for one transport mode.
// Estimated is set when the leg comes from the great-circle fallback
// instead of the routing backend.
type TravelLeg struct {
	From        Coordinates
	To          Coordinates
	Mode        TransportMode
	DistanceKm  float64
	DurationMin float64
	Estimated   bool
}

// FallbackMinutesPerKm is the pace assumed when no route is available.
const FallbackMinutesPerKm = 12.0

// EstimateLeg builds the deterministic great-circle leg.
func EstimateLeg(from, to Coordinates, mode TransportMode) TravelLeg {
	km := HaversineKm(from, to)
	return TravelLeg{
		From:        from,
		To:          to,
		Mode:        mode,
		DistanceKm:  km,
		DurationMin: km * FallbackMinutesPerKm,
		Estimated:   true,
	}
}
