package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"net/http"
	"strings"
	"time"
)

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// OSRMRouter asks a route service for the fastest route between two points:
// `<base>/<profile>/<lon1>,<lat1>;<lon2>,<lat2>?overview=false`.
type OSRMRouter struct {
	client      client
	baseURL     string
	timeout     time.Duration
	maxAttempts int
}

func NewOSRMRouter(baseURL, userAgent string, timeout time.Duration) (*OSRMRouter, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("router base url is empty")
	}
	return &OSRMRouter{
		client:      newClient(userAgent),
		baseURL:     base,
		timeout:     timeout,
		maxAttempts: 3,
	}, nil
}

// Profile maps a transport mode onto the routing profile name.
func Profile(mode domain.TransportMode) string {
	switch mode {
	case domain.ModeWalking:
		return "walking"
	case domain.ModeBicycle:
		return "cycling"
	default:
		return "driving"
	}
}

func (r *OSRMRouter) routeURL(from, to domain.Coordinates, mode domain.TransportMode) string {
	return fmt.Sprintf("%s/%s/%s;%s?overview=false", r.baseURL, Profile(mode), from.LonLat(), to.LonLat())
}

// Route returns the first route's distance and duration. Retries share one
// deadline, so a slow backend costs at most the configured timeout.
func (r *OSRMRouter) Route(
	ctx context.Context,
	from, to domain.Coordinates,
	mode domain.TransportMode,
) (_ domain.TravelLeg, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	endpoint := r.routeURL(from, to, mode)
	resp, err := r.client.doWithRetry(ctx, r.maxAttempts, func() (*http.Request, error) {
		return r.client.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.TravelLeg{}, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.TravelLeg{}, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "" && !strings.EqualFold(decoded.Code, "Ok") {
		return domain.TravelLeg{}, fmt.Errorf("route service answered code=%q", decoded.Code)
	}
	if len(decoded.Routes) == 0 {
		return domain.TravelLeg{}, errors.New("route service returned no routes")
	}

	best := decoded.Routes[0]
	return domain.TravelLeg{
		From:        from,
		To:          to,
		Mode:        mode,
		DistanceKm:  best.Distance / 1000,
		DurationMin: best.Duration / 60,
	}, nil
}
