package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
)

// DashboardHandler serves balance summaries
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardResponse represents the dashboard summary
type DashboardResponse struct {
	Balance       string `json:"balance"`
	NumCategories int64  `json:"num_categories"`
	NumMovements  int64  `json:"num_movements"`
}

// MinijobsBalanceResponse represents the current-month minijob balance
type MinijobsBalanceResponse struct {
	MinijobsBalance string `json:"minijobs_balance"`
	MaxEarnings     string `json:"max_earnings"`
	CurrentMonth    string `json:"current_month"`
	CurrentYear     int    `json:"current_year"`
}

// CategoryTypeBalanceResponse represents the current-month balance of a category type
type CategoryTypeBalanceResponse struct {
	CategoryType string `json:"category_type"`
	Balance      string `json:"balance"`
	CurrentMonth string `json:"current_month"`
	CurrentYear  int    `json:"current_year"`
}

// GetDashboard handles GET /users/me/dashboard
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, userID, "Failed to get dashboard")
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		Balance:       formatMoney(dashboard.Balance),
		NumCategories: dashboard.NumCategories,
		NumMovements:  dashboard.NumMovements,
	})
}

// GetMinijobsBalance handles GET /users/me/minijobs_balance
func (h *DashboardHandler) GetMinijobsBalance(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	balance, err := h.dashboardService.GetMinijobsBalance(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, userID, "Failed to get minijobs balance")
	}

	return c.JSON(http.StatusOK, MinijobsBalanceResponse{
		MinijobsBalance: formatMoney(balance.Balance),
		MaxEarnings:     domain.MinijobMaxEarnings,
		CurrentMonth:    balance.Month,
		CurrentYear:     balance.Year,
	})
}

// GetCategoryTypeBalance handles GET /users/me/balance/:category_type
func (h *DashboardHandler) GetCategoryTypeBalance(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	balance, err := h.dashboardService.GetCategoryTypeBalance(c.Request().Context(), userID, domain.CategoryType(c.Param("category_type")))
	if err != nil {
		return respondError(c, err, userID, "Failed to get balance")
	}

	return c.JSON(http.StatusOK, CategoryTypeBalanceResponse{
		CategoryType: string(balance.CategoryType),
		Balance:      formatMoney(balance.Balance),
		CurrentMonth: balance.Month,
		CurrentYear:  balance.Year,
	})
}
