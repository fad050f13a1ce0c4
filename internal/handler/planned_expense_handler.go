package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/marginalwallet/wallet-api/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PlannedExpenseHandler handles planned expense HTTP requests
type PlannedExpenseHandler struct {
	plannedExpenseService *service.PlannedExpenseService
}

// NewPlannedExpenseHandler creates a new PlannedExpenseHandler
func NewPlannedExpenseHandler(plannedExpenseService *service.PlannedExpenseService) *PlannedExpenseHandler {
	return &PlannedExpenseHandler{plannedExpenseService: plannedExpenseService}
}

// CreatePlannedExpenseRequest represents the create planned expense request body
type CreatePlannedExpenseRequest struct {
	AproxDate   *string          `json:"aprox_date"`
	Value       *decimal.Decimal `json:"value"`
	Currency    string           `json:"currency"`
	Frequency   string           `json:"frequency"`
	Description string           `json:"description"`
}

// UpdatePlannedExpenseRequest represents a partial planned expense update
type UpdatePlannedExpenseRequest struct {
	AproxDate   *string          `json:"aprox_date"`
	Value       *decimal.Decimal `json:"value"`
	Currency    *string          `json:"currency"`
	Frequency   *string          `json:"frequency"`
	Description *string          `json:"description"`
}

// PlannedExpenseResponse represents a planned expense in API responses
type PlannedExpenseResponse struct {
	ID          int32  `json:"id"`
	UserID      int32  `json:"user_id"`
	AproxDate   string `json:"aprox_date"`
	Value       string `json:"value"`
	Currency    string `json:"currency"`
	Frequency   string `json:"frequency"`
	Description string `json:"description"`
}

func toPlannedExpenseResponse(pe *domain.PlannedExpense) PlannedExpenseResponse {
	return PlannedExpenseResponse{
		ID:          pe.ID,
		UserID:      pe.UserID,
		AproxDate:   util.FormatDate(pe.AproxDate),
		Value:       formatMoney(pe.Value),
		Currency:    string(pe.Currency),
		Frequency:   string(pe.Frequency),
		Description: pe.Description,
	}
}

// GetPlannedExpenses handles GET /planned_expenses/
func (h *PlannedExpenseHandler) GetPlannedExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	page, ok := parsePage(c)
	if !ok {
		return invalidPageError(c)
	}

	expenses, err := h.plannedExpenseService.GetPlannedExpenses(c.Request().Context(), userID, page)
	if err != nil {
		return respondError(c, err, userID, "Failed to get planned expenses")
	}

	response := make([]PlannedExpenseResponse, len(expenses))
	for i, pe := range expenses {
		response[i] = toPlannedExpenseResponse(pe)
	}

	return c.JSON(http.StatusOK, response)
}

// CreatePlannedExpense handles POST /planned_expenses/
func (h *PlannedExpenseHandler) CreatePlannedExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	var req CreatePlannedExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}
	if req.Value == nil {
		return respondError(c, domain.ErrValueRequired, userID, "")
	}
	aproxDate, err := parseDateField(req.AproxDate)
	if err != nil {
		return invalidDateError(c, "aprox_date")
	}

	input := service.CreatePlannedExpenseInput{
		Value:       *req.Value,
		Currency:    domain.Currency(req.Currency),
		Frequency:   domain.Frequency(req.Frequency),
		Description: req.Description,
	}
	if aproxDate != nil {
		input.AproxDate = *aproxDate
	}

	expense, err := h.plannedExpenseService.CreatePlannedExpense(c.Request().Context(), userID, input)
	if err != nil {
		return respondError(c, err, userID, "Failed to create planned expense")
	}

	log.Info().Int32("user_id", userID).Int32("planned_expense_id", expense.ID).Msg("Planned expense created")

	return c.JSON(http.StatusCreated, toPlannedExpenseResponse(expense))
}

// GetPlannedExpense handles GET /planned_expenses/:id
func (h *PlannedExpenseHandler) GetPlannedExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "planned expense")
	}

	expense, err := h.plannedExpenseService.GetPlannedExpense(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, userID, "Failed to get planned expense")
	}

	return c.JSON(http.StatusOK, toPlannedExpenseResponse(expense))
}

// UpdatePlannedExpense handles PATCH /planned_expenses/:id
func (h *PlannedExpenseHandler) UpdatePlannedExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "planned expense")
	}

	var req UpdatePlannedExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}
	aproxDate, err := parseDateField(req.AproxDate)
	if err != nil {
		return invalidDateError(c, "aprox_date")
	}

	input := service.UpdatePlannedExpenseInput{
		AproxDate:   aproxDate,
		Value:       req.Value,
		Description: req.Description,
	}
	if req.Currency != nil {
		currency := domain.Currency(*req.Currency)
		input.Currency = &currency
	}
	if req.Frequency != nil {
		frequency := domain.Frequency(*req.Frequency)
		input.Frequency = &frequency
	}

	expense, err := h.plannedExpenseService.UpdatePlannedExpense(c.Request().Context(), userID, id, input)
	if err != nil {
		return respondError(c, err, userID, "Failed to update planned expense")
	}

	log.Info().Int32("user_id", userID).Int32("planned_expense_id", id).Msg("Planned expense updated")

	return c.JSON(http.StatusOK, toPlannedExpenseResponse(expense))
}

// DeletePlannedExpense handles DELETE /planned_expenses/:id
func (h *PlannedExpenseHandler) DeletePlannedExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "planned expense")
	}

	if err := h.plannedExpenseService.DeletePlannedExpense(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, userID, "Failed to delete planned expense")
	}

	log.Info().Int32("user_id", userID).Int32("planned_expense_id", id).Msg("Planned expense deleted")

	return c.NoContent(http.StatusNoContent)
}
