package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
)

// InsightHandler serves generated financial summaries
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// InsightResponse carries the generated summary
type InsightResponse struct {
	Insights string `json:"insights"`
}

// GetInsights handles GET /users/me/insights
func (h *InsightHandler) GetInsights(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	text, err := h.insightService.GenerateInsights(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, userID, "An unexpected error occurred while generating insights.")
	}

	return c.JSON(http.StatusOK, InsightResponse{Insights: text})
}
