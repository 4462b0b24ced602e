package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"itinerary-planner-service/internal/domain"
	"math"
	"strconv"
)

// Row is one line of a day's tabular export.
type Row struct {
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	LegKm        *float64 `json:"leg_km,omitempty"`
	LegMinutes   *int     `json:"leg_minutes,omitempty"`
	PreviousStop string   `json:"previous_stop"`
}

var Header = []string{
	"start time",
	"end time",
	"name",
	"category",
	"leg distance (km)",
	"leg duration (min)",
	"previous stop",
}

// Rows flattens a day into export rows. The leg columns describe travel into
// the stop; the first stop's previous stop is the hotel.
func Rows(day *domain.DayPlan) []Row {
	rows := make([]Row, 0, len(day.Stops))
	previous := day.Hotel
	for _, s := range day.Stops {
		r := Row{
			Name:         s.Name,
			Category:     string(s.Category),
			PreviousStop: previous,
		}
		if s.Start != nil {
			r.Start = s.Start.Format("15:04")
		}
		if s.End != nil {
			r.End = s.End.Format("15:04")
		}
		if leg := s.IncomingLeg; leg != nil {
			km := math.Round(leg.DistanceKm*10) / 10
			mins := int(math.Round(leg.DurationMin))
			r.LegKm = &km
			r.LegMinutes = &mins
		}
		rows = append(rows, r)
		previous = s.Name
	}
	return rows
}

// Record renders a row as CSV fields in Header order.
func (r Row) Record() []string {
	km, mins := "", ""
	if r.LegKm != nil {
		km = strconv.FormatFloat(*r.LegKm, 'f', 1, 64)
	}
	if r.LegMinutes != nil {
		mins = strconv.Itoa(*r.LegMinutes)
	}
	return []string{r.Start, r.End, r.Name, r.Category, km, mins, r.PreviousStop}
}

// WriteCSV writes the header and one record per stop.
func WriteCSV(w io.Writer, day *domain.DayPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range Rows(day) {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
