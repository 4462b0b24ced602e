package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type TransportMode string

const (
	ModeDriving TransportMode = "driving"
	ModeWalking TransportMode = "walking"
	ModeBicycle TransportMode = "bicycle"
)

func ParseTransportMode(s string) (TransportMode, error) {
	switch m := TransportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDriving, ModeWalking, ModeBicycle:
		return m, nil
	case "":
		return ModeDriving, nil
	default:
		return "", fmt.Errorf("%w: unknown transport mode %q", ErrInvalidTrip, s)
	}
}

// A time-of-day interval expressed as offsets from midnight.
type ClockWindow struct {
	Start time.Duration
	End   time.Duration
}

// ParseClockWindow parses "HH:MM" start and end values.
func ParseClockWindow(start, end string) (ClockWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return ClockWindow{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return ClockWindow{}, err
	}
	w := ClockWindow{Start: s, End: e}
	if w.End <= w.Start {
		return ClockWindow{}, fmt.Errorf("%w: window %s-%s ends before it starts", ErrInvalidTrip, start, end)
	}
	return w, nil
}

func ParseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid clock value %q", ErrInvalidTrip, v)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock renders an offset from midnight as "HH:MM".
func FormatClock(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

func (w ClockWindow) Length() time.Duration { return w.End - w.Start }

// On anchors the window to a calendar date.
func (w ClockWindow) On(date time.Time) (time.Time, time.Time) {
	day := DateOnly(date)
	return day.Add(w.Start), day.Add(w.End)
}

type MealWindows struct {
	Breakfast ClockWindow
	Lunch     ClockWindow
	Dinner    ClockWindow
}

// DefaultMealWindows is used when a trip does not carry its own meal windows.
func DefaultMealWindows() MealWindows {
	return MealWindows{
		Breakfast: ClockWindow{Start: 7 * time.Hour, End: 8*time.Hour + 30*time.Minute},
		Lunch:     ClockWindow{Start: 12 * time.Hour, End: 13*time.Hour + 30*time.Minute},
		Dinner:    ClockWindow{Start: 18*time.Hour + 30*time.Minute, End: 20 * time.Hour},
	}
}

// Validate checks that meals are ordered breakfast, lunch, dinner without overlap.
func (m MealWindows) Validate() error {
	if m.Breakfast.End > m.Lunch.Start || m.Lunch.End > m.Dinner.Start {
		return fmt.Errorf("%w: meal windows must be ordered breakfast < lunch < dinner", ErrInvalidTrip)
	}
	return nil
}

// Trip-level inputs of a planning run.
type TripParameters struct {
	TripID        string
	Title         string
	DepartureDate time.Time
	TotalNights   int
	Mode          TransportMode
	Intensity     int // raw 0-10 preference
	Meals         MealWindows
}

func (t TripParameters) Validate() error {
	if t.DepartureDate.IsZero() {
		return fmt.Errorf("%w: departure date is required", ErrInvalidTrip)
	}
	if t.TotalNights < 0 {
		return fmt.Errorf("%w: total nights must not be negative", ErrInvalidTrip)
	}
	if _, err := ParseTransportMode(string(t.Mode)); err != nil {
		return err
	}
	if t.Intensity < 0 || t.Intensity > 10 {
		return fmt.Errorf("%w: intensity must be between 0 and 10", ErrInvalidTrip)
	}
	return t.Meals.Validate()
}

// DailyCap derives the per-day intensity cap from the raw 0-10 preference.
func (t TripParameters) DailyCap() int {
	raw := min(max(t.Intensity, 0), 10)
	return max(1, int(math.Round(float64(raw)/2)))
}

// LastDay is the final date covered by the trip's stays.
func (t TripParameters) LastDay() time.Time {
	return AddDays(DateOnly(t.DepartureDate), t.TotalNights-1)
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a date by whole calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

const DateLayout = "2006-01-02"

func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidTrip, v)
	}
	return t, nil
}
