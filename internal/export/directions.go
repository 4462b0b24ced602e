package export

import (
	"errors"
	"itinerary-planner-service/internal/domain"
	"net/url"
	"strings"
)

const DefaultMapsHost = "www.google.com"

// TravelMode maps a transport mode onto the directions travelmode value.
func TravelMode(mode domain.TransportMode) string {
	switch mode {
	case domain.ModeWalking:
		return "walking"
	case domain.ModeBicycle:
		return "bicycling"
	default:
		return "driving"
	}
}

// DirectionsURL builds a map directions link for one day: the hotel is both
// origin and destination and located stops, in scheduled order, are waypoints
// the map service may reorder.
func DirectionsURL(host string, day *domain.DayPlan, mode domain.TransportMode) (string, error) {
	if day == nil {
		return "", errors.New("directions: day is nil")
	}
	if !day.HotelCoordinates.Valid() || day.HotelCoordinates == (domain.Coordinates{}) {
		return "", errors.New("directions: hotel has no coordinates")
	}
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultMapsHost
	}

	var waypoints []string
	for _, s := range day.Stops {
		if s.Resolved() {
			waypoints = append(waypoints, s.Coordinates.LatLon())
		}
	}

	hotel := day.HotelCoordinates.LatLon()

	// Parameters are written by hand to keep their documented order.
	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(host)
	b.WriteString("/maps/dir/?api=1")
	b.WriteString("&origin=" + hotel)
	b.WriteString("&destination=" + hotel)
	if len(waypoints) > 0 {
		b.WriteString("&waypoints=" + url.QueryEscape(strings.Join(waypoints, "|")))
		b.WriteString("&waypoints_opt=optimize:true")
	}
	b.WriteString("&travelmode=" + TravelMode(mode))
	return b.String(), nil
}
