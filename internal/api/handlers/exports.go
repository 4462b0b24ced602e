package handlers

import (
	"bytes"
	"fmt"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/export"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves per-day artefacts of a trip's latest itinerary.
type ExportHandler struct {
	Trips    TripPlanning
	MapsHost string
}

func (h *ExportHandler) Directions(c *gin.Context) {
	it, day, ok := h.day(c)
	if !ok {
		return
	}
	u, err := export.DirectionsURL(h.MapsHost, day, it.Trip.Mode)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondSuccess(c, gin.H{"date": day.Date.Format(domain.DateLayout), "url": u}, "")
}

func (h *ExportHandler) CSV(c *gin.Context) {
	_, day, ok := h.day(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, day); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(day, "csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) PDF(c *gin.Context) {
	it, day, ok := h.day(c)
	if !ok {
		return
	}

	// The QR code is optional; a day without hotel coordinates still prints.
	u, _ := export.DirectionsURL(h.MapsHost, day, it.Trip.Mode)

	title := it.Trip.Title
	if title == "" {
		title = "Itinerary"
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, title, day, u); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(day, "pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// day resolves the :tripId and :date params against the latest itinerary,
// writing the error response itself when it fails.
func (h *ExportHandler) day(c *gin.Context) (*domain.Itinerary, *domain.DayPlan, bool) {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return nil, nil, false
	}

	it, err := h.Trips.Latest(strings.TrimSpace(c.Param("tripId")))
	if err != nil {
		handleServiceError(c, err)
		return nil, nil, false
	}

	day := it.Day(date)
	if day == nil {
		respondError(c, http.StatusNotFound, "no plan for that date")
		return nil, nil, false
	}
	return it, day, true
}

func attachment(day *domain.DayPlan, ext string) string {
	return fmt.Sprintf("attachment; filename=\"day-%s.%s\"", day.Date.Format(domain.DateLayout), ext)
}
