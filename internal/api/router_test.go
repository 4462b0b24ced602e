package api

import (
	"bytes"
	"context"
	"encoding/json"
	"itinerary-planner-service/internal/adapters/cache"
	"itinerary-planner-service/internal/adapters/distance"
	"itinerary-planner-service/internal/adapters/repositories"
	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const lyonTrip = `{
  "title": "Lyon",
  "departureDate": "2024-06-01",
  "totalNights": 1,
  "mode": "walking",
  "intensity": 4,
  "destinations": [
    {"id": "h", "name": "Hotel Bellecour", "category": "hotel", "address": "Place Bellecour, Lyon", "lat": 45.7578, "lon": 4.8320},
    {"id": "f", "name": "Fourviere", "category": "landmark", "address": "Place de Fourviere, Lyon", "lat": 45.7623, "lon": 4.8222},
    {"id": "b", "name": "Bouchon Daniel", "category": "restaurant", "address": "Rue Neuve, Lyon", "lat": 45.7650, "lon": 4.8350}
  ]
}`

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*gin.Engine, *repositories.MemoryTripRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := services.NewCoordinateResolver(distance.NewMockGeocoder(nil), cache.NewMemoryCoordinateStore(), 4, 0)
	legs := services.NewDistanceService(distance.NewMockRouteProvider(nil), cache.NewMemoryLegCache(time.Hour), 4, 0)
	planner := services.NewPlanner(resolver, legs, 0)

	repo := repositories.NewMemoryTripRepository()
	trips := services.NewTripPlanner(repo, planner, services.NewRunRegistry())
	return NewRouter(trips, "maps.example.test"), repo
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Fatalf("missing trace id header")
	}
	if env := decode(t, rec); env.TraceID != rec.Header().Get("X-Trace-ID") {
		t.Fatalf("trace id = %q, header %q", env.TraceID, rec.Header().Get("X-Trace-ID"))
	}
}

func TestTraceIDIsEchoed(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Trace-ID", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-ID"); got != "abc-123" {
		t.Fatalf("trace id = %q", got)
	}
}

func TestPlanInlineThenExports(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodPost, "/plans", lyonTrip)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var it dto.ItineraryResponse
	if err := json.Unmarshal(decode(t, rec).Data, &it); err != nil {
		t.Fatalf("decode itinerary: %v", err)
	}
	if it.TripID == "" || it.RunID == "" {
		t.Fatalf("ids not set: %+v", it)
	}
	if len(it.Hotels) != 1 || it.Hotels[0].Nights != 1 {
		t.Fatalf("hotels = %+v", it.Hotels)
	}
	if len(it.Days) != 1 || it.Days[0].Date != "2024-06-01" {
		t.Fatalf("days = %+v", it.Days)
	}
	if len(it.Days[0].Stops) != 2 {
		t.Fatalf("stops = %+v", it.Days[0].Stops)
	}
	if !strings.Contains(it.Days[0].DirectionsURL, "travelmode=walking") {
		t.Fatalf("directions url = %q", it.Days[0].DirectionsURL)
	}

	base := "/trips/" + it.TripID

	rec = do(t, r, http.MethodGet, base+"/plan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get plan status = %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, base+"/days/2024-06-01/directions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("directions status = %d body=%s", rec.Code, rec.Body.String())
	}
	var link struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &link); err != nil {
		t.Fatalf("decode directions: %v", err)
	}
	if !strings.HasPrefix(link.URL, "https://maps.example.test/maps/dir/?api=1") {
		t.Fatalf("url = %q", link.URL)
	}

	rec = do(t, r, http.MethodGet, base+"/days/2024-06-01/export.csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n"); len(lines) != 3 {
		t.Fatalf("csv lines = %d:\n%s", len(lines), rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, base+"/days/2024-06-01/export.pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf status = %d", rec.Code)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a pdf")
	}
}

func TestPlanStoredTrip(t *testing.T) {
	r, repo := newTestServer(t)

	ctx := context.Background()
	hotel := domain.Coordinates{Lat: 45.7578, Lon: 4.8320}
	museum := domain.Coordinates{Lat: 45.7670, Lon: 4.8340}
	err := repo.SaveTrip(ctx, domain.TripParameters{
		TripID:        "lyon",
		DepartureDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TotalNights:   2,
		Mode:          domain.ModeDriving,
		Intensity:     4,
		Meals:         domain.DefaultMealWindows(),
	}, []*domain.Destination{
		{ID: "h", Name: "Hotel", Category: domain.CategoryHotel, Coordinates: &hotel},
		{ID: "m", Name: "Musee", Category: domain.CategoryLandmark, Coordinates: &museum},
	})
	if err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	rec := do(t, r, http.MethodPost, "/trips/lyon/plan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if _, ok := repo.Plan("lyon"); !ok {
		t.Fatalf("plan not persisted")
	}
}

func TestErrorMapping(t *testing.T) {
	r, _ := newTestServer(t)

	noHotel := `{"departureDate":"2024-06-01","totalNights":1,"destinations":[{"id":"a","name":"A","category":"landmark","lat":1,"lon":1}]}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown field", http.MethodPost, "/plans", `{"nope":1}`, http.StatusBadRequest},
		{"bad mode", http.MethodPost, "/plans", `{"departureDate":"2024-06-01","totalNights":1,"mode":"teleport","destinations":[]}`, http.StatusBadRequest},
		{"no lodging", http.MethodPost, "/plans", noHotel, http.StatusUnprocessableEntity},
		{"unknown trip", http.MethodPost, "/trips/missing/plan", "", http.StatusNotFound},
		{"no plan yet", http.MethodGet, "/trips/missing/plan", "", http.StatusNotFound},
		{"bad date", http.MethodGet, "/trips/missing/days/june/export.csv", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.want, rec.Body.String())
			}
			if env := decode(t, rec); env.Status != "error" || env.Code != tt.want {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestExportUnknownDay(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodPost, "/plans", strings.Replace(lyonTrip, `"title"`, `"id": "fixed", "title"`, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, "/trips/fixed/days/2024-07-01/directions", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
