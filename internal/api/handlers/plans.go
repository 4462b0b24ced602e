package handlers

import (
	"context"
	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/export"
	"itinerary-planner-service/internal/tripfile"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TripPlanning is the planning surface the handlers depend on.
type TripPlanning interface {
	PlanTrip(ctx context.Context, tripID string) (*domain.Itinerary, error)
	PlanInline(ctx context.Context, trip domain.TripParameters, dests []*domain.Destination) (*domain.Itinerary, error)
	Latest(tripID string) (*domain.Itinerary, error)
}

type PlanHandler struct {
	Trips    TripPlanning
	MapsHost string
}

// PlanInline plans a trip document posted in the request body.
func (h *PlanHandler) PlanInline(c *gin.Context) {
	doc, err := tripfile.Decode(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	params, dests, err := doc.ToDomain()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	it, err := h.Trips.PlanInline(c.Request.Context(), params, dests)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, toItineraryResponse(it, h.MapsHost), "itinerary planned")
}

// PlanTrip runs the pipeline for a stored trip and replaces its plan.
func (h *PlanHandler) PlanTrip(c *gin.Context) {
	tripID := strings.TrimSpace(c.Param("tripId"))

	it, err := h.Trips.PlanTrip(c.Request.Context(), tripID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, toItineraryResponse(it, h.MapsHost), "itinerary planned")
}

// GetPlan returns the last committed itinerary of a trip.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	it, err := h.Trips.Latest(strings.TrimSpace(c.Param("tripId")))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondSuccess(c, toItineraryResponse(it, h.MapsHost), "")
}

func toItineraryResponse(it *domain.Itinerary, mapsHost string) dto.ItineraryResponse {
	res := dto.ItineraryResponse{
		RunID:      it.RunID,
		TripID:     it.Trip.TripID,
		Title:      it.Trip.Title,
		PlannedAt:  it.PlannedAt,
		Hotels:     make([]dto.HotelResponse, 0, len(it.Hotels)),
		Days:       make([]dto.DayResponse, 0, len(it.Days)),
		Warnings:   make([]dto.WarningResponse, 0, len(it.Warnings)),
		Unresolved: it.Unresolved,
		Unassigned: it.Unassigned,
		Overflowed: it.Overflowed,
	}

	for _, h := range it.Hotels {
		res.Hotels = append(res.Hotels, dto.HotelResponse{
			ID:        h.ID,
			Name:      h.Name,
			Nights:    h.Nights,
			Affinity:  h.Affinity,
			StayStart: h.StayStart.Format(domain.DateLayout),
			StayEnd:   h.StayEnd.Format(domain.DateLayout),
		})
	}

	for _, d := range it.Days {
		day := dto.DayResponse{
			Date:            d.Date.Format(domain.DateLayout),
			Hotel:           d.Hotel,
			FirstDayAtHotel: d.FirstDayAtHotel,
			DepartHotelAt:   d.DepartHotelAt,
			DepartLeg:       toLegResponse(d.DepartLeg),
			ReturnHotelAt:   d.ReturnHotelAt,
			ReturnLeg:       toLegResponse(d.ReturnLeg),
			Stops:           make([]dto.StopResponse, 0, len(d.Stops)),
			Meals:           make([]dto.MealResponse, 0, len(d.Meals)),
		}
		// A day whose hotel has no coordinates simply has no link.
		if u, err := export.DirectionsURL(mapsHost, d, it.Trip.Mode); err == nil {
			day.DirectionsURL = u
		}

		for _, s := range d.Stops {
			stop := dto.StopResponse{
				ID:          s.ID,
				Name:        s.Name,
				Category:    string(s.Category),
				Start:       s.Start,
				End:         s.End,
				IncomingLeg: toLegResponse(s.IncomingLeg),
				OutgoingLeg: toLegResponse(s.OutgoingLeg),
			}
			if s.Resolved() {
				lat, lon := s.Coordinates.Lat, s.Coordinates.Lon
				stop.Lat, stop.Lon = &lat, &lon
			}
			day.Stops = append(day.Stops, stop)
		}
		for _, m := range d.Meals {
			day.Meals = append(day.Meals, dto.MealResponse{
				Kind:       string(m.Kind),
				Start:      m.Start,
				End:        m.End,
				Restaurant: m.Restaurant,
			})
		}
		res.Days = append(res.Days, day)
	}

	for _, w := range it.Warnings {
		res.Warnings = append(res.Warnings, dto.WarningResponse{
			Kind:        string(w.Kind),
			Destination: w.Destination,
			Message:     w.Message,
		})
	}
	return res
}

func toLegResponse(l *domain.TravelLeg) *dto.LegResponse {
	if l == nil {
		return nil
	}
	return &dto.LegResponse{
		DistanceKm:  l.DistanceKm,
		DurationMin: l.DurationMin,
		Estimated:   l.Estimated,
	}
}
