package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt image uploads attached to movements
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptResponse represents presigned receipt links
type ReceiptResponse struct {
	MovementID   int32  `json:"movement_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	DisplayURL   string `json:"display_url"`
	OriginalURL  string `json:"original_url"`
	ExpiresAt    string `json:"expires_at"`
}

func toReceiptResponse(movementID int32, urls *domain.ReceiptURLs) ReceiptResponse {
	return ReceiptResponse{
		MovementID:   movementID,
		ThumbnailURL: urls.Thumbnail,
		DisplayURL:   urls.Display,
		OriginalURL:  urls.Original,
		ExpiresAt:    urls.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// UploadReceipt handles PUT /movements/:id/receipt
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	if !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "movement")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// one byte past the limit is enough to reject oversized uploads
	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	urls, err := h.receiptService.UploadReceipt(c.Request().Context(), userID, id, data, file.Filename)
	if err != nil {
		return respondError(c, err, userID, "Failed to upload receipt")
	}

	log.Info().
		Int32("user_id", userID).
		Int32("movement_id", id).
		Msg("Receipt uploaded successfully")

	return c.JSON(http.StatusOK, toReceiptResponse(id, urls))
}

// GetReceipt handles GET /movements/:id/receipt
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "movement")
	}

	urls, err := h.receiptService.GetReceipt(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, userID, "Failed to get receipt")
	}

	return c.JSON(http.StatusOK, toReceiptResponse(id, urls))
}

// DeleteReceipt handles DELETE /movements/:id/receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "movement")
	}

	if err := h.receiptService.DeleteReceipt(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, userID, "Failed to delete receipt")
	}

	log.Info().Int32("user_id", userID).Int32("movement_id", id).Msg("Receipt deleted")

	return c.NoContent(http.StatusNoContent)
}
