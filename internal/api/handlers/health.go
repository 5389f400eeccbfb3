package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

const version = "1.0.0-glass"

// ViewerCounter reports connected viewers.
type ViewerCounter interface {
	ClientCount() int
}

// HealthCheck returns server health status
func HealthCheck(viewers ViewerCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{
			"status":  "ok",
			"service": "gameglass-api",
			"version": version,
			"uptime":  time.Since(startTime).String(),
		}
		if viewers != nil {
			resp["viewers"] = viewers.ClientCount()
		}
		c.JSON(http.StatusOK, resp)
	}
}
