package service

import (
	"context"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/websocket"
	"github.com/shopspring/decimal"
)

// PlannedExpenseService handles planned expense business logic
type PlannedExpenseService struct {
	eventSink
	plannedExpenseRepo domain.PlannedExpenseRepository
	guard              *OwnershipGuard
}

// NewPlannedExpenseService creates a new PlannedExpenseService
func NewPlannedExpenseService(plannedExpenseRepo domain.PlannedExpenseRepository, guard *OwnershipGuard) *PlannedExpenseService {
	return &PlannedExpenseService{
		plannedExpenseRepo: plannedExpenseRepo,
		guard:              guard,
	}
}

// CreatePlannedExpenseInput holds the input for creating a planned expense
type CreatePlannedExpenseInput struct {
	AproxDate   time.Time
	Value       decimal.Decimal
	Currency    domain.Currency
	Frequency   domain.Frequency
	Description string
}

// UpdatePlannedExpenseInput holds a partial update; nil fields are left unchanged
type UpdatePlannedExpenseInput struct {
	AproxDate   *time.Time
	Value       *decimal.Decimal
	Currency    *domain.Currency
	Frequency   *domain.Frequency
	Description *string
}

// CreatePlannedExpense records a planned expense for userID
func (s *PlannedExpenseService) CreatePlannedExpense(ctx context.Context, userID int32, input CreatePlannedExpenseInput) (*domain.PlannedExpense, error) {
	if input.AproxDate.IsZero() {
		return nil, domain.ErrDateRequired
	}
	if !input.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if !input.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}
	if err := domain.ValidateMoney(input.Value); err != nil {
		return nil, err
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	expense, err := s.plannedExpenseRepo.Create(ctx, &domain.PlannedExpense{
		UserID:      userID,
		AproxDate:   input.AproxDate,
		Value:       input.Value,
		Currency:    input.Currency,
		Frequency:   input.Frequency,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypePlannedExpense, expense))
	return expense, nil
}

// GetPlannedExpenses lists a page of the user's planned expenses ordered by date
func (s *PlannedExpenseService) GetPlannedExpenses(ctx context.Context, userID int32, page domain.Page) ([]*domain.PlannedExpense, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.plannedExpenseRepo.List(ctx, userID, page)
}

// GetPlannedExpense retrieves one of the user's planned expenses
func (s *PlannedExpenseService) GetPlannedExpense(ctx context.Context, userID, id int32) (*domain.PlannedExpense, error) {
	return s.guard.PlannedExpense(ctx, userID, id)
}

// UpdatePlannedExpense applies the fields present in input
func (s *PlannedExpenseService) UpdatePlannedExpense(ctx context.Context, userID, id int32, input UpdatePlannedExpenseInput) (*domain.PlannedExpense, error) {
	expense, err := s.guard.PlannedExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.AproxDate != nil {
		if input.AproxDate.IsZero() {
			return nil, domain.ErrDateRequired
		}
		expense.AproxDate = *input.AproxDate
	}
	if input.Value != nil {
		if err := domain.ValidateMoney(*input.Value); err != nil {
			return nil, err
		}
		expense.Value = *input.Value
	}
	if input.Currency != nil {
		if !input.Currency.Valid() {
			return nil, domain.ErrInvalidCurrency
		}
		expense.Currency = *input.Currency
	}
	if input.Frequency != nil {
		if !input.Frequency.Valid() {
			return nil, domain.ErrInvalidFrequency
		}
		expense.Frequency = *input.Frequency
	}
	if input.Description != nil {
		description, err := normalizeDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		expense.Description = description
	}

	updated, err := s.plannedExpenseRepo.Update(ctx, expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypePlannedExpense, updated))
	return updated, nil
}

// DeletePlannedExpense removes one of the user's planned expenses
func (s *PlannedExpenseService) DeletePlannedExpense(ctx context.Context, userID, id int32) error {
	if _, err := s.guard.PlannedExpense(ctx, userID, id); err != nil {
		return err
	}
	if err := s.plannedExpenseRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypePlannedExpense, websocket.Deleted(id)))
	return nil
}
