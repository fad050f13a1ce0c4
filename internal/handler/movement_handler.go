package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/marginalwallet/wallet-api/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MovementHandler handles movement-related HTTP requests
type MovementHandler struct {
	movementService *service.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *service.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

// CreateMovementRequest represents the create movement request body
type CreateMovementRequest struct {
	CategoryID    int32            `json:"category_id"`
	MovementDate  *string          `json:"movement_date"`
	Value         *decimal.Decimal `json:"value"`
	Currency      string           `json:"currency"`
	PaymentMethod string           `json:"payment_method"`
}

// UpdateMovementRequest represents a partial movement update.
// CategoryID stays raw so an explicit null can be told apart from an absent field.
type UpdateMovementRequest struct {
	CategoryID    json.RawMessage  `json:"category_id"`
	MovementDate  *string          `json:"movement_date"`
	Value         *decimal.Decimal `json:"value"`
	Currency      *string          `json:"currency"`
	PaymentMethod *string          `json:"payment_method"`
}

// CreateActivityLogRequest represents the activity log request body
type CreateActivityLogRequest struct {
	Description string `json:"description"`
}

// MovementResponse represents a movement in API responses
type MovementResponse struct {
	ID            int32  `json:"id"`
	UserID        int32  `json:"user_id"`
	CategoryID    int32  `json:"category_id"`
	MovementDate  string `json:"movement_date"`
	Value         string `json:"value"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
	HasReceipt    bool   `json:"has_receipt"`
}

func toMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		UserID:        m.UserID,
		CategoryID:    m.CategoryID,
		MovementDate:  util.FormatDate(m.MovementDate),
		Value:         formatMoney(m.Value),
		Currency:      string(m.Currency),
		PaymentMethod: string(m.PaymentMethod),
		HasReceipt:    m.ReceiptKey != nil,
	}
}

func toMovementResponses(movements []*domain.Movement) []MovementResponse {
	response := make([]MovementResponse, len(movements))
	for i, m := range movements {
		response[i] = toMovementResponse(m)
	}
	return response
}

func invalidDateError(c echo.Context, field string) error {
	return NewValidationError(c, "Validation failed", []ValidationError{
		{Field: field, Message: "Must be a date in YYYY-MM-DD format"},
	})
}

// GetMovements handles GET /movements/
func (h *MovementHandler) GetMovements(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	page, ok := parsePage(c)
	if !ok {
		return invalidPageError(c)
	}

	input := service.ListMovementsInput{
		Sort:       domain.SortOrder(c.QueryParam("sort_order")),
		TimeFilter: domain.TimeFilter(c.QueryParam("time_filter")),
		Page:       page,
	}

	movements, err := h.movementService.GetMovements(c.Request().Context(), userID, input)
	if err != nil {
		return respondError(c, err, userID, "Failed to get movements")
	}

	return c.JSON(http.StatusOK, toMovementResponses(movements))
}

// CreateMovement handles POST /movements/
func (h *MovementHandler) CreateMovement(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	var req CreateMovementRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}
	if req.Value == nil {
		return respondError(c, domain.ErrValueRequired, userID, "")
	}
	movementDate, err := parseDateField(req.MovementDate)
	if err != nil {
		return invalidDateError(c, "movement_date")
	}

	input := service.CreateMovementInput{
		CategoryID:    req.CategoryID,
		Value:         *req.Value,
		Currency:      domain.Currency(req.Currency),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	}
	if movementDate != nil {
		input.MovementDate = *movementDate
	}

	movement, err := h.movementService.CreateMovement(c.Request().Context(), userID, input)
	if err != nil {
		return respondError(c, err, userID, "Failed to create movement")
	}

	log.Info().Int32("user_id", userID).Int32("movement_id", movement.ID).Msg("Movement created")

	return c.JSON(http.StatusCreated, toMovementResponse(movement))
}

// GetMovement handles GET /movements/:id
func (h *MovementHandler) GetMovement(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "movement")
	}

	movement, err := h.movementService.GetMovement(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, userID, "Failed to get movement")
	}

	return c.JSON(http.StatusOK, toMovementResponse(movement))
}

// UpdateMovement handles PATCH /movements/:id
func (h *MovementHandler) UpdateMovement(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "movement")
	}

	var req UpdateMovementRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	input := service.UpdateMovementInput{Value: req.Value}
	if len(req.CategoryID) > 0 {
		if bytes.Equal(req.CategoryID, []byte("null")) {
			input.CategoryIDNull = true
		} else {
			var categoryID int32
			if err := json.Unmarshal(req.CategoryID, &categoryID); err != nil {
				return NewValidationError(c, "Validation failed", []ValidationError{
					{Field: "category_id", Message: "Must be an integer"},
				})
			}
			input.CategoryID = &categoryID
		}
	}
	movementDate, err := parseDateField(req.MovementDate)
	if err != nil {
		return invalidDateError(c, "movement_date")
	}
	input.MovementDate = movementDate
	if req.Currency != nil {
		currency := domain.Currency(*req.Currency)
		input.Currency = &currency
	}
	if req.PaymentMethod != nil {
		method := domain.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	movement, err := h.movementService.UpdateMovement(c.Request().Context(), userID, id, input)
	if err != nil {
		return respondError(c, err, userID, "Failed to update movement")
	}

	log.Info().Int32("user_id", userID).Int32("movement_id", id).Msg("Movement updated")

	return c.JSON(http.StatusOK, toMovementResponse(movement))
}

// DeleteMovement handles DELETE /movements/:id
func (h *MovementHandler) DeleteMovement(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "movement")
	}

	if err := h.movementService.DeleteMovement(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, userID, "Failed to delete movement")
	}

	log.Info().Int32("user_id", userID).Int32("movement_id", id).Msg("Movement deleted")

	return c.NoContent(http.StatusNoContent)
}

// CreateActivityLog handles POST /movements/:id/activity_logs
func (h *MovementHandler) CreateActivityLog(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "movement")
	}

	var req CreateActivityLogRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	activityLog, err := h.movementService.AddActivityLog(c.Request().Context(), userID, id, req.Description)
	if err != nil {
		return respondError(c, err, userID, "Failed to create activity log")
	}

	log.Info().Int32("user_id", userID).Int32("movement_id", id).Int32("activity_log_id", activityLog.ID).Msg("Activity log created")

	return c.JSON(http.StatusCreated, toActivityLogResponse(activityLog))
}
