package api

import (
	"itinerary-planner-service/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// NewRouter wires HTTP handlers with their dependencies.
// Handlers stay unaware of concrete adapters.
func NewRouter(trips handlers.TripPlanning, mapsHost string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), traceIDMiddleware(), loggingMiddleware())

	plans := &handlers.PlanHandler{Trips: trips, MapsHost: mapsHost}
	exports := &handlers.ExportHandler{Trips: trips, MapsHost: mapsHost}

	r.GET("/health", handlers.Health)
	r.POST("/plans", plans.PlanInline)

	trip := r.Group("/trips/:tripId")
	{
		trip.POST("/plan", plans.PlanTrip)
		trip.GET("/plan", plans.GetPlan)
		trip.GET("/days/:date/directions", exports.Directions)
		trip.GET("/days/:date/export.csv", exports.CSV)
		trip.GET("/days/:date/export.pdf", exports.PDF)
	}

	return r
}
