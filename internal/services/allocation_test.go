package services

import (
	"itinerary-planner-service/internal/domain"
	"testing"
	"time"
)

func nights(hotels []*domain.Hotel) []int {
	out := make([]int, len(hotels))
	for i, h := range hotels {
		out[i] = h.Nights
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAllocateNightsSingleHotelTakesAll(t *testing.T) {
	h := hotel("H1", 5)
	retained := AllocateNights([]*domain.Hotel{h}, 3)
	if len(retained) != 1 || h.Nights != 3 {
		t.Fatalf("nights = %d, retained = %d; want 3, 1", h.Nights, len(retained))
	}
}

func TestAllocateNightsTruncatesToTotalNights(t *testing.T) {
	hotels := []*domain.Hotel{hotel("H1", 4), hotel("H2", 3), hotel("H3", 2), hotel("H4", 1)}
	retained := AllocateNights(hotels, 2)

	if len(retained) != 2 || retained[0].Name != "H1" || retained[1].Name != "H2" {
		t.Fatalf("retained = %v, want H1 and H2", nights(retained))
	}
	if got := nights(hotels); !equalInts(got, []int{1, 1, 0, 0}) {
		t.Fatalf("nights = %v, want [1 1 0 0]", got)
	}
}

func TestAllocateNightsProportional(t *testing.T) {
	hotels := []*domain.Hotel{hotel("H1", 6), hotel("H2", 3), hotel("H3", 1)}
	AllocateNights(hotels, 7)

	// 4.2 -> 4, 2.1 -> 2, 0.7 -> 1
	if got := nights(hotels); !equalInts(got, []int{4, 2, 1}) {
		t.Fatalf("nights = %v, want [4 2 1]", got)
	}
}

func TestAllocateNightsFirstHotelAbsorbsDifference(t *testing.T) {
	hotels := []*domain.Hotel{hotel("H1", 3), hotel("H2", 3), hotel("H3", 3)}
	AllocateNights(hotels, 4)

	// round(4/3) = 1 each, the missing night goes to the first hotel.
	if got := nights(hotels); !equalInts(got, []int{2, 1, 1}) {
		t.Fatalf("nights = %v, want [2 1 1]", got)
	}
}

func TestAllocateNightsRepairsFirstHotel(t *testing.T) {
	hotels := []*domain.Hotel{hotel("H1", 2), hotel("H2", 2), hotel("H3", 0)}
	AllocateNights(hotels, 3)

	// 2 + 2 + 1 overshoots by 2; the first hotel keeps one night.
	if got := nights(hotels); !equalInts(got, []int{1, 1, 1}) {
		t.Fatalf("nights = %v, want [1 1 1]", got)
	}
}

func TestAllocateNightsEvenSplit(t *testing.T) {
	hotels := []*domain.Hotel{hotel("H1", 0), hotel("H2", 0), hotel("H3", 0)}
	AllocateNights(hotels, 5)
	if got := nights(hotels); !equalInts(got, []int{2, 2, 1}) {
		t.Fatalf("nights = %v, want [2 2 1]", got)
	}

	retained := AllocateNights(hotels, 2)
	if got := nights(hotels); !equalInts(got, []int{1, 1, 0}) {
		t.Fatalf("nights = %v, want [1 1 0]", got)
	}
	if len(retained) != 2 {
		t.Fatalf("len(retained) = %d, want 2", len(retained))
	}
}

func TestAllocateNightsSumsToTotal(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for k := 1; k <= 6; k++ {
			hotels := make([]*domain.Hotel, k)
			for i := range hotels {
				hotels[i] = hotel("H", (k-i)*(i%3))
			}
			sortByAffinity(hotels)

			retained := AllocateNights(hotels, n)
			sum := 0
			for _, h := range retained {
				if h.Nights < 1 {
					t.Fatalf("n=%d k=%d: retained hotel with %d nights", n, k, h.Nights)
				}
				sum += h.Nights
			}
			if sum != n {
				t.Fatalf("n=%d k=%d: sum = %d, nights = %v", n, k, sum, nights(hotels))
			}
		}
	}
}

func sortByAffinity(hotels []*domain.Hotel) {
	res := ClusterByHotel(hotels, nil, nil)
	copy(hotels, res.Hotels)
}

func TestScheduleStaysIsContiguous(t *testing.T) {
	h1, h2 := hotel("H1", 3), hotel("H2", 3)
	h1.Nights, h2.Nights = 3, 3

	ScheduleStays([]*domain.Hotel{h1, h2}, june1.Add(15*time.Hour))

	want := []struct{ start, end time.Time }{
		{june1, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)},
	}
	for i, h := range []*domain.Hotel{h1, h2} {
		if !h.StayStart.Equal(want[i].start) || !h.StayEnd.Equal(want[i].end) {
			t.Fatalf("%s stay = %v..%v, want %v..%v", h.Name, h.StayStart, h.StayEnd, want[i].start, want[i].end)
		}
	}
}
