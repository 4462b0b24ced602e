package handlers

import (
	"errors"
	"itinerary-planner-service/internal/domain"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// handleServiceError maps domain errors onto HTTP statuses.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		respondError(c, http.StatusUnprocessableEntity, "cannot plan: "+err.Error())
	case errors.Is(err, domain.ErrInvalidTrip):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTripNotFound):
		respondError(c, http.StatusNotFound, "trip not found")
	case errors.Is(err, domain.ErrPlanNotFound):
		respondError(c, http.StatusNotFound, "plan not found")
	case errors.Is(err, domain.ErrRunSuperseded):
		respondError(c, http.StatusConflict, "a newer planning run replaced this one")
	default:
		log.Printf("trace_id=%s path=%s unhandled error: %v", c.GetString("trace_id"), c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
