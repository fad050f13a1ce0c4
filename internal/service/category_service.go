package service

import (
	"context"
	"strings"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/websocket"
)

// CategoryService handles category-related business logic
type CategoryService struct {
	eventSink
	categoryRepo domain.CategoryRepository
	movementRepo domain.MovementRepository
	guard        *OwnershipGuard
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, movementRepo domain.MovementRepository, guard *OwnershipGuard) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		guard:        guard,
	}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Type         domain.CategoryType
	Counterparty string
}

// UpdateCategoryInput holds a partial category update; nil fields are left unchanged
type UpdateCategoryInput struct {
	Type         *domain.CategoryType
	Counterparty *string
}

func normalizeCounterparty(counterparty string) (string, error) {
	counterparty = strings.TrimSpace(counterparty)
	if counterparty == "" {
		return "", domain.ErrCounterpartyRequired
	}
	if len(counterparty) > domain.MaxCounterpartyLen {
		return "", domain.ErrCounterpartyTooLong
	}
	return counterparty, nil
}

// CreateCategory creates a category owned by userID
func (s *CategoryService) CreateCategory(ctx context.Context, userID int32, input CreateCategoryInput) (*domain.Category, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}
	counterparty, err := normalizeCounterparty(input.Counterparty)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(ctx, &domain.Category{
		UserID:       userID,
		Type:         input.Type,
		Counterparty: counterparty,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeCategory, category))
	return category, nil
}

// GetCategories lists a page of the user's categories, optionally of one type
func (s *CategoryService) GetCategories(ctx context.Context, userID int32, filter domain.CategoryFilter) ([]*domain.Category, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}
	if err := filter.Page.Validate(); err != nil {
		return nil, err
	}
	return s.categoryRepo.List(ctx, userID, filter)
}

// GetCategory retrieves one of the user's categories
func (s *CategoryService) GetCategory(ctx context.Context, userID, id int32) (*domain.Category, error) {
	return s.guard.Category(ctx, userID, id)
}

// UpdateCategory applies the fields present in input
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id int32, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.guard.Category(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, domain.ErrInvalidCategoryType
		}
		category.Type = *input.Type
	}
	if input.Counterparty != nil {
		counterparty, err := normalizeCounterparty(*input.Counterparty)
		if err != nil {
			return nil, err
		}
		category.Counterparty = counterparty
	}

	updated, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeCategory, updated))
	return updated, nil
}

// DeleteCategory removes a category that no movement references
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id int32) error {
	if _, err := s.guard.Category(ctx, userID, id); err != nil {
		return err
	}

	count, err := s.movementRepo.CountByCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryHasMovements
	}

	if err := s.categoryRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeCategory, websocket.Deleted(id)))
	return nil
}

// GetCategoryMovements lists every movement of one of the user's categories, newest first
func (s *CategoryService) GetCategoryMovements(ctx context.Context, userID, id int32) ([]*domain.Movement, error) {
	if _, err := s.guard.Category(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.movementRepo.List(ctx, userID, domain.MovementFilter{
		CategoryID: &id,
		Sort:       domain.SortDesc,
	})
}
