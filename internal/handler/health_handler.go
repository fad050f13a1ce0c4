package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Welcome is the greeting served at the API root
const Welcome = "Welcome to the Marginal Wallet API!"

// HealthHandler serves the root greeting and liveness probe
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles GET /
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": Welcome})
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
