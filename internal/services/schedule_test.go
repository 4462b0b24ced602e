package services

import (
	"context"
	"itinerary-planner-service/internal/domain"
	"math"
	"testing"
	"time"
)

func TestClusterByHotelFirstSeenWinsTies(t *testing.T) {
	h1, h2 := hotel("H1", 0), hotel("H2", 0)
	a := dest("A", domain.CategoryActivity, at(0, 0))
	b := dest("B", domain.CategoryActivity, at(0, 0))
	c := dest("C", domain.CategoryLandmark, at(0, 0))

	table := DistanceTable{
		{2, 2},          // tie: H1 is seen first
		{3, 1},          // H2 strictly closer
		{math.NaN(), 4}, // only H2 reachable
	}
	res := ClusterByHotel([]*domain.Hotel{h1, h2}, []*domain.Destination{a, b, c}, table)

	if a.AssignedHotel != "H1" || b.AssignedHotel != "H2" || c.AssignedHotel != "H2" {
		t.Fatalf("assigned = %q %q %q, want H1 H2 H2", a.AssignedHotel, b.AssignedHotel, c.AssignedHotel)
	}
	if res.Hotels[0] != h2 || h2.Affinity != 2 || h1.Affinity != 1 {
		t.Fatalf("hotels not sorted by affinity: first=%s h1=%d h2=%d", res.Hotels[0].Name, h1.Affinity, h2.Affinity)
	}
}

func TestClusterByHotelReportsUnreachable(t *testing.T) {
	h1 := hotel("H1", 0)
	a := dest("A", domain.CategoryActivity, at(0, 0))
	res := ClusterByHotel([]*domain.Hotel{h1}, []*domain.Destination{a}, DistanceTable{{math.NaN()}})

	if len(res.Unassigned) != 1 || a.AssignedHotel != "" || h1.Affinity != 0 {
		t.Fatalf("unassigned = %d, assigned = %q", len(res.Unassigned), a.AssignedHotel)
	}
}

func TestReassignMovesMembersOfDroppedHotels(t *testing.T) {
	h1, h2, h3 := hotel("H1", 0), hotel("H2", 0), hotel("H3", 0)
	hotels := []*domain.Hotel{h1, h2, h3}
	a := dest("A", domain.CategoryActivity, at(0, 0))
	b := dest("B", domain.CategoryActivity, at(0, 0))
	c := dest("C", domain.CategoryActivity, at(0, 0))
	d := dest("D", domain.CategoryActivity, at(0, 0))
	dests := []*domain.Destination{a, b, c, d}

	table := DistanceTable{
		{1, 5, 9},
		{1, 5, 9},
		{5, 9, 1}, // H3 first, then H1
		{9, 1, 5}, // H2 only
	}
	res := ClusterByHotel(hotels, dests, table)
	AllocateNights(res.Hotels, 1)
	res.Reassign(hotels, dests, table)

	if h1.Nights != 1 {
		t.Fatalf("H1 nights = %d, want 1", h1.Nights)
	}
	for _, x := range dests {
		if x.AssignedHotel != "H1" {
			t.Fatalf("%s assigned to %q, want H1", x.Name, x.AssignedHotel)
		}
	}
	members := res.Members[h1]
	if len(members) != 4 || members[2] != c || members[3] != d {
		t.Fatalf("members not in input order")
	}
}

func stayOf(nights int) *domain.Hotel {
	h := hotel("H1", 0)
	h.Nights = nights
	ScheduleStays([]*domain.Hotel{h}, june1)
	return h
}

func TestAssignDaysSpreadsUnderCap(t *testing.T) {
	h := stayOf(3)
	var members []*domain.Destination
	for _, n := range []string{"a1", "a2", "a3", "a4", "a5"} {
		members = append(members, dest(n, domain.CategoryActivity, at(0, 0)))
	}

	days, over := AssignDays(h, members, 5)
	if over != 0 {
		t.Fatalf("overflowed = %d, want 0", over)
	}
	counts := []int{days[0].Count(), days[1].Count(), days[2].Count()}
	if !equalInts(counts, []int{2, 2, 1}) {
		t.Fatalf("counts = %v, want [2 2 1]", counts)
	}
	for _, m := range members {
		if m.VisitDate == nil || !h.Covers(*m.VisitDate) {
			t.Fatalf("%s visit date %v outside stay", m.Name, m.VisitDate)
		}
	}
}

func TestAssignDaysSoftOverflow(t *testing.T) {
	h := stayOf(2)
	var members []*domain.Destination
	for _, n := range []string{"a1", "a2", "a3"} {
		members = append(members, dest(n, domain.CategoryActivity, at(0, 0)))
	}

	days, over := AssignDays(h, members, 1)
	if days[0].Count() != 2 || days[1].Count() != 1 {
		t.Fatalf("counts = %d %d, want 2 1", days[0].Count(), days[1].Count())
	}
	if over != 1 {
		t.Fatalf("overflowed = %d, want 1", over)
	}
}

func TestAssignDaysOrdersByCategoryThenPlacement(t *testing.T) {
	h := stayOf(3)
	r := dest("r", domain.CategoryRestaurant, at(0, 0))
	l := dest("l", domain.CategoryLandmark, at(0, 0))
	a := dest("a", domain.CategoryActivity, at(0, 0))

	days, _ := AssignDays(h, []*domain.Destination{r, l, a}, 3)
	if days[0].Stops[0] != a || days[1].Stops[0] != l || days[2].Stops[0] != r {
		t.Fatalf("placement ignored category priority")
	}
	if !days[0].FirstDayAtHotel || days[1].FirstDayAtHotel {
		t.Fatalf("FirstDayAtHotel flags wrong")
	}
}

func clock(h, m int) time.Time {
	return june1.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestScheduleTimesAroundMeals(t *testing.T) {
	r := dest("Bistro", domain.CategoryRestaurant, at(0, 0))
	a1 := dest("a1", domain.CategoryActivity, at(0, 0))
	a2 := dest("a2", domain.CategoryActivity, at(0, 0))
	a3 := dest("a3", domain.CategoryLandmark, at(0, 0))
	day := &domain.DayPlan{Date: june1, Stops: []*domain.Destination{a1, a2, a3, r}}

	ScheduleTimes(day, domain.DefaultMealWindows(), 0)

	// One visit in the morning, two in the afternoon.
	if !a1.Start.Equal(clock(8, 30)) || !a1.End.Equal(clock(12, 0)) {
		t.Fatalf("a1 = %v..%v", a1.Start, a1.End)
	}
	if !r.Start.Equal(clock(12, 0)) || !r.End.Equal(clock(13, 30)) {
		t.Fatalf("restaurant = %v..%v", r.Start, r.End)
	}
	if !a2.Start.Equal(clock(13, 30)) || !a2.End.Equal(clock(16, 0)) {
		t.Fatalf("a2 = %v..%v", a2.Start, a2.End)
	}
	if !a3.Start.Equal(clock(16, 0)) || !a3.End.Equal(clock(18, 30)) {
		t.Fatalf("a3 = %v..%v", a3.Start, a3.End)
	}
	if day.Stops[0] != a1 || day.Stops[1] != r {
		t.Fatalf("stops not sorted by start")
	}
	if day.Meals[1].Restaurant != "Bistro" || day.Meals[2].Restaurant != "" {
		t.Fatalf("meals = %+v", day.Meals)
	}
}

func TestScheduleTimesRestaurantsFillLunchDinnerThenAfter(t *testing.T) {
	r1 := dest("r1", domain.CategoryRestaurant, at(0, 0))
	r2 := dest("r2", domain.CategoryRestaurant, at(0, 0))
	r3 := dest("r3", domain.CategoryRestaurant, at(0, 0))
	day := &domain.DayPlan{Date: june1, Stops: []*domain.Destination{r1, r2, r3}}

	ScheduleTimes(day, domain.DefaultMealWindows(), 0)

	if !r1.Start.Equal(clock(12, 0)) || !r2.Start.Equal(clock(18, 30)) || !r3.Start.Equal(clock(20, 0)) {
		t.Fatalf("restaurants at %v %v %v", r1.Start, r2.Start, r3.Start)
	}
	if !r3.End.Equal(clock(21, 30)) {
		t.Fatalf("r3 end = %v", r3.End)
	}
}

func TestScheduleTimesMinimumVisitAndCompaction(t *testing.T) {
	var stops []*domain.Destination
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		stops = append(stops, dest(n, domain.CategoryActivity, at(0, 0)))
	}
	day := &domain.DayPlan{Date: june1, Stops: stops}

	ScheduleTimes(day, domain.DefaultMealWindows(), 0)

	for i, s := range day.Stops {
		if s.End.Sub(*s.Start) < time.Hour {
			t.Fatalf("%s lasts %v, want at least 1h", s.Name, s.End.Sub(*s.Start))
		}
		if i > 0 && day.Stops[i-1].End.After(*s.Start) {
			t.Fatalf("%s overlaps %s", day.Stops[i-1].Name, s.Name)
		}
	}
}

func TestScheduleTimesFirstDayOffset(t *testing.T) {
	a := dest("a", domain.CategoryActivity, at(0, 0))
	b := dest("b", domain.CategoryActivity, at(0, 0))
	day := &domain.DayPlan{Date: june1, FirstDayAtHotel: true, Stops: []*domain.Destination{a, b}}

	ScheduleTimes(day, domain.DefaultMealWindows(), 90*time.Minute)

	if !a.Start.Equal(clock(10, 0)) {
		t.Fatalf("morning start = %v, want 10:00", a.Start)
	}
}

type fixedLegs map[[2]domain.Coordinates]float64

func (f fixedLegs) Legs(_ context.Context, reqs []LegRequest, mode domain.TransportMode) []domain.TravelLeg {
	out := make([]domain.TravelLeg, len(reqs))
	for i, r := range reqs {
		out[i] = domain.TravelLeg{From: r.From, To: r.To, Mode: mode, DurationMin: f[[2]domain.Coordinates{r.From, r.To}]}
	}
	return out
}

func TestCorrectRoutePushesForwardOnly(t *testing.T) {
	hc := domain.Coordinates{Lat: 10, Lon: 10}
	a := dest("a", domain.CategoryActivity, at(1, 1))
	b := dest("b", domain.CategoryActivity, at(2, 2))
	c := dest("c", domain.CategoryActivity, at(3, 3))
	setTimes(a, clock(9, 0), clock(10, 0))
	setTimes(b, clock(10, 0), clock(11, 0))
	setTimes(c, clock(12, 0), clock(13, 0))

	legs := fixedLegs{
		{hc, *a.Coordinates}:             20,
		{*a.Coordinates, *b.Coordinates}: 30,
		{*b.Coordinates, *c.Coordinates}: 45,
		{*c.Coordinates, hc}:             15,
	}
	day := &domain.DayPlan{Date: june1, Hotel: "H", HotelCoordinates: hc, Stops: []*domain.Destination{a, b, c}}

	warnings := CorrectRoute(context.Background(), day, legs, domain.ModeDriving, domain.DefaultMealWindows())
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}

	if !a.Start.Equal(clock(9, 0)) {
		t.Fatalf("first stop moved to %v", a.Start)
	}
	if !b.Start.Equal(clock(10, 30)) || !b.End.Equal(clock(11, 30)) {
		t.Fatalf("b = %v..%v, want 10:30..11:30", b.Start, b.End)
	}
	// 11:30 + 45m = 12:15 > 12:00
	if !c.Start.Equal(clock(12, 15)) {
		t.Fatalf("c start = %v, want 12:15", c.Start)
	}
	if !day.DepartHotelAt.Equal(clock(8, 40)) {
		t.Fatalf("depart = %v, want 08:40", day.DepartHotelAt)
	}
	if !day.ReturnHotelAt.Equal(clock(13, 30)) {
		t.Fatalf("return = %v, want 13:30", day.ReturnHotelAt)
	}
	if a.OutgoingLeg == nil || b.IncomingLeg != a.OutgoingLeg {
		t.Fatalf("legs not shared between neighbours")
	}
}

func TestCorrectRouteOmitsLegWithoutCoordinates(t *testing.T) {
	hc := domain.Coordinates{Lat: 10, Lon: 10}
	a := dest("a", domain.CategoryActivity, at(1, 1))
	b := dest("b", domain.CategoryActivity, nil)
	setTimes(a, clock(9, 0), clock(10, 30))
	setTimes(b, clock(10, 0), clock(11, 0))

	day := &domain.DayPlan{Date: june1, Hotel: "H", HotelCoordinates: hc, Stops: []*domain.Destination{a, b}}
	warnings := CorrectRoute(context.Background(), day, fixedLegs{}, domain.ModeDriving, domain.DefaultMealWindows())

	if len(warnings) != 2 {
		t.Fatalf("warnings = %d, want 2 (a->b and b->hotel)", len(warnings))
	}
	if day.ReturnLeg != nil || day.ReturnHotelAt != nil {
		t.Fatalf("return leg should be omitted")
	}
	if !b.Start.Equal(clock(10, 30)) {
		t.Fatalf("b start = %v, want 10:30", b.Start)
	}
}

func TestCorrectRouteWarnsWhenStopEndsPastMidnight(t *testing.T) {
	hc := domain.Coordinates{Lat: 10, Lon: 10}
	a := dest("a", domain.CategoryActivity, at(1, 1))
	b := dest("b", domain.CategoryActivity, at(2, 2))
	setTimes(a, clock(20, 0), clock(21, 0))
	setTimes(b, clock(21, 0), clock(22, 0))

	legs := fixedLegs{
		{hc, *a.Coordinates}:             10,
		{*a.Coordinates, *b.Coordinates}: 180,
		{*b.Coordinates, hc}:             10,
	}
	day := &domain.DayPlan{Date: june1, Hotel: "H", HotelCoordinates: hc, Stops: []*domain.Destination{a, b}}

	warnings := CorrectRoute(context.Background(), day, legs, domain.ModeWalking, domain.DefaultMealWindows())

	if !b.End.Equal(clock(25, 0)) {
		t.Fatalf("b end = %v, want 01:00 next day", b.End)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", warnings)
	}
	if w := warnings[0]; w.Kind != domain.WarningLateStop || w.Destination != "b" {
		t.Fatalf("warning = %+v", w)
	}
}

func TestCorrectRouteLeavesUnscheduledDayAlone(t *testing.T) {
	hc := domain.Coordinates{Lat: 10, Lon: 10}
	a := dest("a", domain.CategoryActivity, at(1, 1))
	b := dest("b", domain.CategoryActivity, at(2, 2))
	setTimes(a, clock(9, 0), clock(10, 0))

	day := &domain.DayPlan{Date: june1, Hotel: "H", HotelCoordinates: hc, Stops: []*domain.Destination{a, b}}

	if warnings := CorrectRoute(context.Background(), day, fixedLegs{}, domain.ModeDriving, domain.DefaultMealWindows()); len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if day.DepartLeg != nil || day.ReturnLeg != nil || a.OutgoingLeg != nil {
		t.Fatalf("legs set on an unscheduled day")
	}
}
