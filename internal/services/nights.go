package services

import (
	"itinerary-planner-service/internal/domain"
	"math"
)

// AllocateNights distributes totalNights over hotels, which must already be
// sorted by affinity (highest first). It sets Nights on every hotel and
// returns those that received at least one night, in the same order.
//
// With no affinity at all the nights are split evenly and the remainder goes
// one each to the first hotels. Otherwise at most totalNights hotels are kept,
// each gets max(1, round(share)) and the first hotel absorbs the rounding
// difference.
func AllocateNights(hotels []*domain.Hotel, totalNights int) []*domain.Hotel {
	for _, h := range hotels {
		h.Nights = 0
	}
	if totalNights <= 0 || len(hotels) == 0 {
		return nil
	}

	totalAffinity := 0
	for _, h := range hotels {
		totalAffinity += h.Affinity
	}

	if totalAffinity == 0 {
		base := totalNights / len(hotels)
		rem := totalNights % len(hotels)
		for i, h := range hotels {
			h.Nights = base
			if i < rem {
				h.Nights++
			}
		}
		return withNights(hotels)
	}

	kept := hotels[:min(len(hotels), totalNights)]

	keptAffinity := 0
	for _, h := range kept {
		keptAffinity += h.Affinity
	}

	sum := 0
	for _, h := range kept {
		share := float64(h.Affinity) / float64(keptAffinity) * float64(totalNights)
		h.Nights = max(1, int(math.Round(share)))
		sum += h.Nights
	}
	kept[0].Nights += totalNights - sum

	// The correction can leave the first hotel empty; take nights back from
	// the hotel holding the most (earliest on ties) until it has one.
	for kept[0].Nights < 1 {
		donor := -1
		for i := 1; i < len(kept); i++ {
			if kept[i].Nights > 1 && (donor == -1 || kept[i].Nights > kept[donor].Nights) {
				donor = i
			}
		}
		if donor == -1 {
			break
		}
		kept[donor].Nights--
		kept[0].Nights++
	}

	return withNights(hotels)
}

func withNights(hotels []*domain.Hotel) []*domain.Hotel {
	out := make([]*domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if h.Nights > 0 {
			out = append(out, h)
		}
	}
	return out
}
