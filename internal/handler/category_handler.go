package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	CategoryType string `json:"category_type"`
	Counterparty string `json:"counterparty"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	CategoryType *string `json:"category_type"`
	Counterparty *string `json:"counterparty"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           int32  `json:"id"`
	UserID       int32  `json:"user_id"`
	CategoryType string `json:"category_type"`
	Counterparty string `json:"counterparty"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		UserID:       c.UserID,
		CategoryType: string(c.Type),
		Counterparty: c.Counterparty,
	}
}

// GetCategories handles GET /categories/
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	page, ok := parsePage(c)
	if !ok {
		return invalidPageError(c)
	}

	filter := domain.CategoryFilter{Page: page}
	if raw := c.QueryParam("type"); raw != "" {
		ct := domain.CategoryType(raw)
		filter.Type = &ct
	}

	categories, err := h.categoryService.GetCategories(c.Request().Context(), userID, filter)
	if err != nil {
		return respondError(c, err, userID, "Failed to get categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}

	return c.JSON(http.StatusOK, response)
}

// CreateCategory handles POST /categories/
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), userID, service.CreateCategoryInput{
		Type:         domain.CategoryType(req.CategoryType),
		Counterparty: req.Counterparty,
	})
	if err != nil {
		return respondError(c, err, userID, "Failed to create category")
	}

	log.Info().Int32("user_id", userID).Int32("category_id", category.ID).Msg("Category created")

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "category")
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, userID, "Failed to get category")
	}

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// UpdateCategory handles PATCH /categories/:id
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "category")
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	input := service.UpdateCategoryInput{Counterparty: req.Counterparty}
	if req.CategoryType != nil {
		ct := domain.CategoryType(*req.CategoryType)
		input.Type = &ct
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), userID, id, input)
	if err != nil {
		return respondError(c, err, userID, "Failed to update category")
	}

	log.Info().Int32("user_id", userID).Int32("category_id", id).Msg("Category updated")

	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "category")
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err, userID, "Failed to delete category")
	}

	log.Info().Int32("user_id", userID).Int32("category_id", id).Msg("Category deleted")

	return c.NoContent(http.StatusNoContent)
}

// GetCategoryMovements handles GET /categories/:id/movements
func (h *CategoryHandler) GetCategoryMovements(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return invalidIDError(c, "category")
	}

	movements, err := h.categoryService.GetCategoryMovements(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, userID, "Failed to get category movements")
	}

	return c.JSON(http.StatusOK, toMovementResponses(movements))
}
