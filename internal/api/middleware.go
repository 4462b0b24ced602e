package api

import (
	"itinerary-planner-service/internal/platform/obs"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// traceIDMiddleware tags every request with a trace id, echoed in the
// response header and carried in the request context for timing logs.
func traceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set("trace_id", traceID)
		c.Writer.Header().Set(traceHeader, traceID)
		c.Request = c.Request.WithContext(obs.WithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}

// loggingMiddleware logs end-to-end request duration and response size.
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Printf(
			"trace_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			c.GetString("trace_id"), c.Request.Method, c.Request.URL.RequestURI(),
			c.Writer.Status(), max(c.Writer.Size(), 0), time.Since(start).Milliseconds(),
		)
	}
}
