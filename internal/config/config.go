package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-driven setting of the service.
type Config struct {
	Port        string
	DatabaseURL string
	TripSeed    string

	CacheBackend  string
	SQLitePath    string
	RedisURL      string
	RedisPassword string

	GeocoderURL       string
	GeocoderUserAgent string
	RouterURL         string
	MapsHost          string

	GeocodeTimeout time.Duration
	RouteTimeout   time.Duration
	GeocodeDelay   time.Duration
	GeocodeRate    int
	BatchSize      int
	BatchDelay     time.Duration
	LegCacheTTL    time.Duration
	FirstDayOffset time.Duration
}

// Load reads configuration from the environment. Callers load .env beforehand.
func Load() Config {
	return Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TripSeed:    strings.TrimSpace(os.Getenv("TRIP_SEED")),

		CacheBackend:  strings.ToLower(Get("CACHE_BACKEND", "sqlite")),
		SQLitePath:    Get("SQLITE_PATH", "data/cache.db"),
		RedisURL:      Get("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		GeocoderURL:       Get("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: Get("GEOCODER_USER_AGENT", "itinerary-planner-service/1.0"),
		RouterURL:         Get("ROUTER_URL", "https://router.project-osrm.org/route/v1"),
		MapsHost:          Get("MAPS_HOST", "www.google.com"),

		GeocodeTimeout: GetDuration("GEOCODE_TIMEOUT", 8*time.Second),
		RouteTimeout:   GetDuration("ROUTE_TIMEOUT", 8*time.Second),
		GeocodeDelay:   GetDuration("GEOCODE_DELAY", 250*time.Millisecond),
		GeocodeRate:    max(GetInt("GEOCODE_RATE", 1), 0),
		BatchSize:      min(max(GetInt("LOOKUP_BATCH_SIZE", 3), 1), 4),
		BatchDelay:     GetDuration("LOOKUP_BATCH_DELAY", 300*time.Millisecond),
		LegCacheTTL:    GetDuration("LEG_CACHE_TTL", 24*time.Hour),
		FirstDayOffset: GetDuration("FIRST_DAY_OFFSET", 0),
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int key=%s value=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("config: invalid duration key=%s value=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
