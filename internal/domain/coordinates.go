package domain

import (
	"math"
	"strconv"
)

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

const earthRadiusKm = 6371.0

// Return coordinates as [lon, lat] for routing backends that expect that order.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// LonLat renders "lon,lat" as used in routing URL path segments.
func (c Coordinates) LonLat() string {
	return formatDegrees(c.Lon) + "," + formatDegrees(c.Lat)
}

// LatLon renders "lat,lon" as used by map links.
func (c Coordinates) LatLon() string {
	return formatDegrees(c.Lat) + "," + formatDegrees(c.Lon)
}

// Valid reports whether the coordinate is a finite point on the globe.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// HaversineKm returns the great-circle distance between two points in kilometres.
func HaversineKm(a, b Coordinates) float64 {
	lat1 := degreesToRadians(a.Lat)
	lat2 := degreesToRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := degreesToRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
