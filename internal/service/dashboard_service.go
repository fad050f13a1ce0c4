package service

import (
	"context"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/util"
)

// DashboardService computes balances over a user's movements. Nothing is cached.
type DashboardService struct {
	categoryRepo domain.CategoryRepository
	movementRepo domain.MovementRepository
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(categoryRepo domain.CategoryRepository, movementRepo domain.MovementRepository) *DashboardService {
	return &DashboardService{
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
}

// GetDashboard returns the balance and counts over everything the user owns
func (s *DashboardService) GetDashboard(ctx context.Context, userID int32) (*domain.Dashboard, error) {
	totals, err := s.movementRepo.Totals(ctx, userID, domain.MovementFilter{})
	if err != nil {
		return nil, err
	}
	numCategories, err := s.categoryRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		Balance:       totals.Balance,
		NumCategories: numCategories,
		NumMovements:  totals.Count,
	}, nil
}

// GetMinijobsBalance returns the balance of Minijob movements in the current month
func (s *DashboardService) GetMinijobsBalance(ctx context.Context, userID int32) (*domain.MonthlyBalance, error) {
	return s.GetCategoryTypeBalance(ctx, userID, domain.CategoryTypeMinijob)
}

// GetCategoryTypeBalance returns the balance of one category type in the current month
func (s *DashboardService) GetCategoryTypeBalance(ctx context.Context, userID int32, categoryType domain.CategoryType) (*domain.MonthlyBalance, error) {
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	now := s.now().UTC()
	start, end := util.MonthRange(now)
	totals, err := s.movementRepo.Totals(ctx, userID, domain.MovementFilter{
		From:         &start,
		To:           &end,
		CategoryType: &categoryType,
	})
	if err != nil {
		return nil, err
	}

	return &domain.MonthlyBalance{
		CategoryType: categoryType,
		Balance:      totals.Balance,
		Month:        now.Month().String(),
		Year:         now.Year(),
	}, nil
}
