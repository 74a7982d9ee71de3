// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController reports service liveness and database reachability.
type HealthController struct {
	databaseUp func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(databaseUp func() bool) *HealthController {
	return &HealthController{databaseUp: databaseUp}
}

// Check handles GET /health requests. The endpoint itself answering means
// the process is up; the database field reflects a live connectivity probe.
func (h *HealthController) Check(c *gin.Context) {
	database := "disconnected"
	if h.databaseUp != nil && h.databaseUp() {
		database = "connected"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Database:  database,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
