package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency of a planned expense
type Frequency string

const (
	FrequencyWeekly     Frequency = "Weekly"
	FrequencyMonthly    Frequency = "Monthly"
	FrequencyQuarterly  Frequency = "Quarterly"
	FrequencyBiannually Frequency = "Biannually"
	FrequencyYearly     Frequency = "Yearly"
	FrequencyOneTime    Frequency = "One Time"
)

// Valid reports whether f is a known frequency
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly,
		FrequencyBiannually, FrequencyYearly, FrequencyOneTime:
		return true
	}
	return false
}

// PlannedExpense is an anticipated future outflow
type PlannedExpense struct {
	ID          int32           `json:"id"`
	UserID      int32           `json:"user_id"`
	AproxDate   time.Time       `json:"aprox_date"`
	Value       decimal.Decimal `json:"value"`
	Currency    Currency        `json:"currency"`
	Frequency   Frequency       `json:"frequency"`
	Description string          `json:"description"`
}

// PlannedExpenseRepository defines the interface for planned expense persistence operations
type PlannedExpenseRepository interface {
	Create(ctx context.Context, expense *PlannedExpense) (*PlannedExpense, error)
	GetByID(ctx context.Context, userID, id int32) (*PlannedExpense, error)
	List(ctx context.Context, userID int32, page Page) ([]*PlannedExpense, error)
	Update(ctx context.Context, expense *PlannedExpense) (*PlannedExpense, error)
	Delete(ctx context.Context, userID, id int32) error
}
