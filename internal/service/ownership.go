package service

import (
	"context"

	"github.com/marginalwallet/wallet-api/internal/domain"
)

// OwnershipGuard resolves a resource id within the caller's own records.
// A missing id and an id owned by someone else return the same Err<X>NotFound.
type OwnershipGuard struct {
	categories      domain.CategoryRepository
	movements       domain.MovementRepository
	plannedExpenses domain.PlannedExpenseRepository
	activityLogs    domain.ActivityLogRepository
}

// NewOwnershipGuard creates a new OwnershipGuard
func NewOwnershipGuard(
	categories domain.CategoryRepository,
	movements domain.MovementRepository,
	plannedExpenses domain.PlannedExpenseRepository,
	activityLogs domain.ActivityLogRepository,
) *OwnershipGuard {
	return &OwnershipGuard{
		categories:      categories,
		movements:       movements,
		plannedExpenses: plannedExpenses,
		activityLogs:    activityLogs,
	}
}

// Category returns the category id if userID owns it
func (g *OwnershipGuard) Category(ctx context.Context, userID, id int32) (*domain.Category, error) {
	return g.categories.GetByID(ctx, userID, id)
}

// Movement returns the movement id if userID owns it
func (g *OwnershipGuard) Movement(ctx context.Context, userID, id int32) (*domain.Movement, error) {
	return g.movements.GetByID(ctx, userID, id)
}

// PlannedExpense returns the planned expense id if userID owns it
func (g *OwnershipGuard) PlannedExpense(ctx context.Context, userID, id int32) (*domain.PlannedExpense, error) {
	return g.plannedExpenses.GetByID(ctx, userID, id)
}

// ActivityLog returns the activity log id if userID owns its movement
func (g *OwnershipGuard) ActivityLog(ctx context.Context, userID, id int32) (*domain.ActivityLog, error) {
	return g.activityLogs.GetByID(ctx, userID, id)
}
