package services

import (
	"itinerary-planner-service/internal/domain"
	"math"
	"slices"
)

// ClusterResult is the outcome of nearest-hotel clustering.
type ClusterResult struct {
	// Hotels sorted by affinity, highest first; equal affinities keep input order.
	Hotels []*domain.Hotel
	// Members lists each hotel's destinations in input order.
	Members    map[*domain.Hotel][]*domain.Destination
	Unassigned []*domain.Destination
}

// DistanceTable holds km[i][j]: destination i to hotel j. NaN marks a
// missing distance.
type DistanceTable [][]float64

func (t DistanceTable) at(i, j int) (float64, bool) {
	if i >= len(t) || j >= len(t[i]) {
		return 0, false
	}
	v := t[i][j]
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// nearest returns the index of the closest hotel among candidates, or -1.
// Only a strictly smaller distance replaces the current best, so the
// first candidate wins ties.
func (t DistanceTable) nearest(i int, candidates []int) int {
	best, bestKm := -1, 0.0
	for _, j := range candidates {
		km, ok := t.at(i, j)
		if !ok {
			continue
		}
		if best == -1 || km < bestKm {
			best, bestKm = j, km
		}
	}
	return best
}

// ClusterByHotel gives every destination to its nearest hotel and tallies
// affinities. hotels and dests are in input order and index the table.
func ClusterByHotel(hotels []*domain.Hotel, dests []*domain.Destination, table DistanceTable) ClusterResult {
	res := ClusterResult{
		Members: make(map[*domain.Hotel][]*domain.Destination, len(hotels)),
	}

	all := make([]int, len(hotels))
	for j := range hotels {
		all[j] = j
	}

	for i, d := range dests {
		j := table.nearest(i, all)
		if j < 0 {
			d.AssignedHotel = ""
			res.Unassigned = append(res.Unassigned, d)
			continue
		}
		h := hotels[j]
		h.Affinity++
		d.AssignedHotel = h.Name
		res.Members[h] = append(res.Members[h], d)
	}

	res.Hotels = slices.Clone(hotels)
	slices.SortStableFunc(res.Hotels, func(a, b *domain.Hotel) int {
		return b.Affinity - a.Affinity
	})

	return res
}

// Reassign moves destinations of hotels that received no nights onto the
// nearest hotel that did. Destinations with no reachable retained hotel
// are returned as unassigned.
func (c *ClusterResult) Reassign(hotels []*domain.Hotel, dests []*domain.Destination, table DistanceTable) []*domain.Destination {
	index := make(map[*domain.Hotel]int, len(hotels))
	for j, h := range hotels {
		index[h] = j
	}
	destIndex := make(map[*domain.Destination]int, len(dests))
	for i, d := range dests {
		destIndex[d] = i
	}

	retained := make([]int, 0, len(hotels))
	for j, h := range hotels {
		if h.Nights > 0 {
			retained = append(retained, j)
		}
	}

	var orphans []*domain.Destination
	for _, h := range c.Hotels {
		if h.Nights > 0 {
			continue
		}
		orphans = append(orphans, c.Members[h]...)
		delete(c.Members, h)
	}
	slices.SortFunc(orphans, func(a, b *domain.Destination) int {
		return destIndex[a] - destIndex[b]
	})

	var lost []*domain.Destination
	for _, d := range orphans {
		j := table.nearest(destIndex[d], retained)
		if j < 0 {
			d.AssignedHotel = ""
			lost = append(lost, d)
			continue
		}
		h := hotels[j]
		d.AssignedHotel = h.Name
		c.Members[h] = append(c.Members[h], d)
	}

	// Keep each hotel's members in input order so placement stays stable.
	for h, members := range c.Members {
		slices.SortStableFunc(members, func(a, b *domain.Destination) int {
			return destIndex[a] - destIndex[b]
		})
		c.Members[h] = members
	}
	c.Unassigned = append(c.Unassigned, lost...)

	return lost
}
