package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoMatch is returned when the geocoder answered with an empty result set.
var ErrNoMatch = errors.New("geocode: no match")

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder resolves addresses with a search endpoint that answers
// `?q=<address>&format=json` with a JSON array of places whose lat/lon are strings.
//
// Every request is preceded by a fixed delay and then gated by a shared limiter,
// so concurrent callers never exceed the configured request rate.
type NominatimGeocoder struct {
	client  client
	baseURL string
	timeout time.Duration
	delay   time.Duration
	limiter *rate.Limiter
}

type GeocoderOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	// Sustained requests per second; zero disables the limiter.
	RatePerSecond float64
	Burst         int
}

func NewNominatimGeocoder(opts GeocoderOptions) (*NominatimGeocoder, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("geocoder base url is empty")
	}

	g := &NominatimGeocoder{
		client:  newClient(opts.UserAgent),
		baseURL: base,
		timeout: opts.Timeout,
		delay:   opts.Delay,
	}
	if opts.RatePerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), max(opts.Burst, 1))
	}
	return g, nil
}

// Geocode issues exactly one request for address. Timeouts, non-2xx answers,
// malformed bodies and empty result sets are all returned as errors.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	if strings.TrimSpace(address) == "" {
		return domain.Coordinates{}, errors.New("geocode: address is empty")
	}

	if err := sleepCtx(ctx, g.delay); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode %q: rate limit: %w", address, err)
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req, err := g.client.newRequest(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	q := req.URL.Query()
	q.Set("q", address)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()

	resp, err := g.client.do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: execute request: %w", address, err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", address, err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w for %q", ErrNoMatch, address)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lat), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid lat %q: %w", address, places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lon), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid lon %q: %w", address, places[0].Lon, err)
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: coordinate out of range: %v", address, c)
	}
	return c, nil
}
