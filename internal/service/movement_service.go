package service

import (
	"context"
	"strings"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/websocket"
	"github.com/shopspring/decimal"
)

// MovementService handles movement-related business logic
type MovementService struct {
	eventSink
	movementRepo    domain.MovementRepository
	activityLogRepo domain.ActivityLogRepository
	guard           *OwnershipGuard
	onDelete        []func(ctx context.Context, movement *domain.Movement)
	now             func() time.Time
}

// NewMovementService creates a new MovementService
func NewMovementService(
	movementRepo domain.MovementRepository,
	activityLogRepo domain.ActivityLogRepository,
	guard *OwnershipGuard,
) *MovementService {
	return &MovementService{
		movementRepo:    movementRepo,
		activityLogRepo: activityLogRepo,
		guard:           guard,
		now:             time.Now,
	}
}

// OnDelete registers fn to run with the removed movement after a deletion commits
func (s *MovementService) OnDelete(fn func(ctx context.Context, movement *domain.Movement)) {
	s.onDelete = append(s.onDelete, fn)
}

// CreateMovementInput holds the input for creating a movement
type CreateMovementInput struct {
	CategoryID    int32
	MovementDate  time.Time
	Value         decimal.Decimal
	Currency      domain.Currency
	PaymentMethod domain.PaymentMethod
}

// UpdateMovementInput holds a partial movement update; nil fields are left unchanged.
// CategoryIDNull is set when the payload carries an explicit null category_id.
type UpdateMovementInput struct {
	CategoryID     *int32
	CategoryIDNull bool
	MovementDate   *time.Time
	Value          *decimal.Decimal
	Currency       *domain.Currency
	PaymentMethod  *domain.PaymentMethod
}

// ListMovementsInput selects a page of movements. Empty fields take their defaults.
type ListMovementsInput struct {
	Sort       domain.SortOrder
	TimeFilter domain.TimeFilter
	Page       domain.Page
}

// CreateMovement records a movement in one of the user's categories.
// A category the user does not own returns domain.ErrCategoryNotFound and nothing is written.
func (s *MovementService) CreateMovement(ctx context.Context, userID int32, input CreateMovementInput) (*domain.Movement, error) {
	if input.MovementDate.IsZero() {
		return nil, domain.ErrDateRequired
	}
	if !input.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if !input.PaymentMethod.Valid() {
		return nil, domain.ErrInvalidPaymentMethod
	}
	if err := domain.ValidateMoney(input.Value); err != nil {
		return nil, err
	}
	if _, err := s.guard.Category(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	movement, err := s.movementRepo.Create(ctx, &domain.Movement{
		UserID:        userID,
		CategoryID:    input.CategoryID,
		MovementDate:  input.MovementDate,
		Value:         input.Value,
		Currency:      input.Currency,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeMovement, movement))
	return movement, nil
}

// GetMovements lists the user's movements within the selected time window
func (s *MovementService) GetMovements(ctx context.Context, userID int32, input ListMovementsInput) ([]*domain.Movement, error) {
	if input.Sort == "" {
		input.Sort = domain.SortDesc
	}
	if input.TimeFilter == "" {
		input.TimeFilter = domain.TimeFilterLastMonth
	}
	if !input.Sort.Valid() {
		return nil, domain.ErrInvalidSortOrder
	}
	if !input.TimeFilter.Valid() {
		return nil, domain.ErrInvalidTimeFilter
	}
	if err := input.Page.Validate(); err != nil {
		return nil, err
	}

	from, to := input.TimeFilter.Range(s.now())
	page := input.Page
	return s.movementRepo.List(ctx, userID, domain.MovementFilter{
		From: from,
		To:   to,
		Sort: input.Sort,
		Page: &page,
	})
}

// GetMovement retrieves one of the user's movements
func (s *MovementService) GetMovement(ctx context.Context, userID, id int32) (*domain.Movement, error) {
	return s.guard.Movement(ctx, userID, id)
}

// UpdateMovement applies the fields present in input. A new category must be owned by the user.
func (s *MovementService) UpdateMovement(ctx context.Context, userID, id int32, input UpdateMovementInput) (*domain.Movement, error) {
	if input.CategoryIDNull {
		return nil, domain.ErrCategoryRequired
	}

	movement, err := s.guard.Movement(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != movement.CategoryID {
		if _, err := s.guard.Category(ctx, userID, *input.CategoryID); err != nil {
			return nil, err
		}
		movement.CategoryID = *input.CategoryID
	}
	if input.MovementDate != nil {
		if input.MovementDate.IsZero() {
			return nil, domain.ErrDateRequired
		}
		movement.MovementDate = *input.MovementDate
	}
	if input.Value != nil {
		if err := domain.ValidateMoney(*input.Value); err != nil {
			return nil, err
		}
		movement.Value = *input.Value
	}
	if input.Currency != nil {
		if !input.Currency.Valid() {
			return nil, domain.ErrInvalidCurrency
		}
		movement.Currency = *input.Currency
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.Valid() {
			return nil, domain.ErrInvalidPaymentMethod
		}
		movement.PaymentMethod = *input.PaymentMethod
	}

	updated, err := s.movementRepo.Update(ctx, movement)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeMovement, updated))
	return updated, nil
}

// DeleteMovement removes a movement together with its activity log
func (s *MovementService) DeleteMovement(ctx context.Context, userID, id int32) error {
	movement, err := s.guard.Movement(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.movementRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	for _, fn := range s.onDelete {
		domain.AfterCommit(ctx, func() { fn(context.WithoutCancel(ctx), movement) })
	}
	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeMovement, websocket.Deleted(id)))
	return nil
}

// AddActivityLog attaches a note to one of the user's movements.
// A movement that already has one returns domain.ErrActivityLogAlreadyExists.
func (s *MovementService) AddActivityLog(ctx context.Context, userID, movementID int32, description string) (*domain.ActivityLog, error) {
	description, err := normalizeDescription(description)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Movement(ctx, userID, movementID); err != nil {
		return nil, err
	}

	activityLog, err := s.activityLogRepo.Create(ctx, &domain.ActivityLog{
		MovementID:  movementID,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeActivityLog, activityLog))
	return activityLog, nil
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return "", domain.ErrDescriptionTooLong
	}
	return description, nil
}
