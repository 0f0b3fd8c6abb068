package controllers

import (
	"encoding/json"
	"net/http"

	"cartpod-finder/utils"
)

// HealthController reports storage connectivity.
type HealthController struct {
	Health *utils.Health
}

// NewHealthController creates a new HealthController
func NewHealthController(health *utils.Health) *HealthController {
	return &HealthController{Health: health}
}

func (hc *HealthController) databaseStatus() string {
	if hc.Health.IsReady() {
		return "connected"
	}
	return "disconnected"
}

// Check handles the health check endpoint.
func (hc *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":   "ok",
		"database": hc.databaseStatus(),
	})
}

// Welcome handles the root route.
func (hc *HealthController) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":  "Welcome to the Food Cart Finder API",
		"database": hc.databaseStatus(),
	})
}
