package export

import (
	"bytes"
	"encoding/csv"
	"itinerary-planner-service/internal/domain"
	"strings"
	"testing"
	"time"
)

func sampleDay() *domain.DayPlan {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	t := func(h, m int) *time.Time {
		v := date.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
		return &v
	}

	hotel := domain.Coordinates{Lat: 48.8566, Lon: 2.3522}
	louvre := &domain.Destination{
		Name: "Louvre", Category: domain.CategoryLandmark,
		Coordinates: &domain.Coordinates{Lat: 48.8606, Lon: 2.3376},
		Start:       t(9, 0), End: t(11, 0),
		IncomingLeg: &domain.TravelLeg{DistanceKm: 1.26, DurationMin: 15.4},
	}
	bistro := &domain.Destination{
		Name: "Chez Paul", Category: domain.CategoryRestaurant,
		Coordinates: &domain.Coordinates{Lat: 48.853, Lon: 2.37},
		Start:       t(12, 0), End: t(13, 30),
		IncomingLeg: &domain.TravelLeg{DistanceKm: 2.04, DurationMin: 24.6, Estimated: true},
	}
	lost := &domain.Destination{Name: "Somewhere", Category: domain.CategoryActivity, Start: t(14, 0), End: t(15, 0)}

	return &domain.DayPlan{
		Date:             date,
		Hotel:            "Hotel du Nord",
		HotelCoordinates: hotel,
		Stops:            []*domain.Destination{louvre, bistro, lost},
	}
}

func TestDirectionsURL(t *testing.T) {
	got, err := DirectionsURL("", sampleDay(), domain.ModeBicycle)
	if err != nil {
		t.Fatalf("DirectionsURL: %v", err)
	}

	want := "https://www.google.com/maps/dir/?api=1" +
		"&origin=48.8566,2.3522&destination=48.8566,2.3522" +
		"&waypoints=48.8606%2C2.3376%7C48.853%2C2.37" +
		"&waypoints_opt=optimize:true&travelmode=bicycling"
	if got != want {
		t.Fatalf("url =\n %s\nwant\n %s", got, want)
	}
}

func TestDirectionsURLWithoutStops(t *testing.T) {
	day := sampleDay()
	day.Stops = nil

	got, err := DirectionsURL("maps.example.com", day, domain.ModeWalking)
	if err != nil {
		t.Fatalf("DirectionsURL: %v", err)
	}
	if strings.Contains(got, "waypoints") || !strings.HasPrefix(got, "https://maps.example.com/") {
		t.Fatalf("url = %s", got)
	}
	if !strings.HasSuffix(got, "travelmode=walking") {
		t.Fatalf("url = %s", got)
	}

	day.HotelCoordinates = domain.Coordinates{}
	if _, err := DirectionsURL("", day, domain.ModeWalking); err == nil {
		t.Fatalf("expected error for hotel without coordinates")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleDay()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Header, ",") {
		t.Fatalf("header = %v", records[0])
	}

	want := [][]string{
		{"09:00", "11:00", "Louvre", "landmark", "1.3", "15", "Hotel du Nord"},
		{"12:00", "13:30", "Chez Paul", "restaurant", "2.0", "25", "Louvre"},
		{"14:00", "15:00", "Somewhere", "activity", "", "", "Chez Paul"},
	}
	for i, w := range want {
		if got := strings.Join(records[i+1], "|"); got != strings.Join(w, "|") {
			t.Fatalf("row %d = %s, want %s", i, got, strings.Join(w, "|"))
		}
	}
}

func TestWritePDF(t *testing.T) {
	day := sampleDay()
	link, _ := DirectionsURL("", day, domain.ModeDriving)

	var buf bytes.Buffer
	if err := WritePDF(&buf, "Été à Paris", day, link); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}
