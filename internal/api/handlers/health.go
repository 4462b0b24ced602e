package handlers

import (
	"github.com/gin-gonic/gin"
)

// Health provides a minimal liveness check endpoint.
func Health(c *gin.Context) {
	respondSuccess(c, gin.H{"status": "ok"}, "")
}
