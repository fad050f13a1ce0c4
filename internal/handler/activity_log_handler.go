package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/rs/zerolog/log"
)

// ActivityLogHandler handles activity log HTTP requests
type ActivityLogHandler struct {
	activityLogService *service.ActivityLogService
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(activityLogService *service.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{activityLogService: activityLogService}
}

// UpdateActivityLogRequest represents a partial activity log update
type UpdateActivityLogRequest struct {
	Description *string `json:"description"`
}

// ActivityLogResponse represents an activity log in API responses
type ActivityLogResponse struct {
	ID          int32  `json:"id"`
	MovementID  int32  `json:"movement_id"`
	Description string `json:"description"`
}

func toActivityLogResponse(l *domain.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          l.ID,
		MovementID:  l.MovementID,
		Description: l.Description,
	}
}

// GetActivityLogs handles GET /activity_logs/
func (h *ActivityLogHandler) GetActivityLogs(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	page, ok := parsePage(c)
	if !ok {
		return invalidPageError(c)
	}

	logs, err := h.activityLogService.GetActivityLogs(c.Request().Context(), userID, page)
	if err != nil {
		return respondError(c, err, userID, "Failed to get activity logs")
	}

	response := make([]ActivityLogResponse, len(logs))
	for i, l := range logs {
		response[i] = toActivityLogResponse(l)
	}

	return c.JSON(http.StatusOK, response)
}

// GetActivityLog handles GET /activity_logs/:id
func (h *ActivityLogHandler) GetActivityLog(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "activity log")
	}

	activityLog, err := h.activityLogService.GetActivityLog(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, userID, "Failed to get activity log")
	}

	return c.JSON(http.StatusOK, toActivityLogResponse(activityLog))
}

// UpdateActivityLog handles PATCH /activity_logs/:id
func (h *ActivityLogHandler) UpdateActivityLog(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "activity log")
	}

	var req UpdateActivityLogRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	activityLog, err := h.activityLogService.UpdateActivityLog(c.Request().Context(), userID, id, req.Description)
	if err != nil {
		return respondError(c, err, userID, "Failed to update activity log")
	}

	log.Info().Int32("user_id", userID).Int32("activity_log_id", id).Msg("Activity log updated")

	return c.JSON(http.StatusOK, toActivityLogResponse(activityLog))
}

// DeleteActivityLog handles DELETE /activity_logs/:id
func (h *ActivityLogHandler) DeleteActivityLog(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "activity log")
	}

	if err := h.activityLogService.DeleteActivityLog(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, userID, "Failed to delete activity log")
	}

	log.Info().Int32("user_id", userID).Int32("activity_log_id", id).Msg("Activity log deleted")

	return c.NoContent(http.StatusNoContent)
}
