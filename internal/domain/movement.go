package domain

import (
	"context"
	"time"

	"github.com/marginalwallet/wallet-api/internal/util"
	"github.com/shopspring/decimal"
)

// Currency of a movement or planned expense
type Currency string

const (
	CurrencyEuro Currency = "EURO"
	CurrencyUSD  Currency = "USD"
)

// Valid reports whether c is a supported currency
func (c Currency) Valid() bool {
	return c == CurrencyEuro || c == CurrencyUSD
}

// PaymentMethod of a movement
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodPaypal       PaymentMethod = "Paypal"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
)

// Valid reports whether p is a supported payment method
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodPaypal, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// SortOrder of a movement listing by date
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether s is asc or desc
func (s SortOrder) Valid() bool {
	return s == SortAsc || s == SortDesc
}

// TimeFilter selects a movement date window
type TimeFilter string

const (
	TimeFilterLastMonth   TimeFilter = "last_month"
	TimeFilterLast3Months TimeFilter = "last_3_months"
	TimeFilterAll         TimeFilter = "all"
)

// RecentWindowDays is the length of the last_3_months window and of the insights window
const RecentWindowDays = 90

// Valid reports whether f is a known time filter
func (f TimeFilter) Valid() bool {
	switch f {
	case TimeFilterLastMonth, TimeFilterLast3Months, TimeFilterAll:
		return true
	}
	return false
}

// Range returns the [from, to) date window of f relative to now.
// last_month is the current calendar month, last_3_months the last 90 days.
func (f TimeFilter) Range(now time.Time) (from, to *time.Time) {
	switch f {
	case TimeFilterLastMonth:
		start, end := util.MonthRange(now)
		return &start, &end
	case TimeFilterLast3Months:
		start := util.DaysBefore(now, RecentWindowDays)
		return &start, nil
	}
	return nil, nil
}

// Movement is a signed money flow: negative values are expenses, positive values income
type Movement struct {
	ID            int32           `json:"id"`
	UserID        int32           `json:"user_id"`
	CategoryID    int32           `json:"category_id"`
	MovementDate  time.Time       `json:"movement_date"`
	Value         decimal.Decimal `json:"value"`
	Currency      Currency        `json:"currency"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ReceiptKey    *string         `json:"-"`
}

// MovementDetail is a movement joined with its category and activity log
type MovementDetail struct {
	Movement
	CategoryType CategoryType
	Counterparty string
	ActivityLog  *string
}

// MovementFilter narrows a movement listing or aggregation. From is inclusive, To exclusive.
type MovementFilter struct {
	From         *time.Time
	To           *time.Time
	CategoryID   *int32
	CategoryType *CategoryType
	Sort         SortOrder
	Page         *Page
}

// MovementTotals is the sum and count of the movements matching a filter
type MovementTotals struct {
	Balance decimal.Decimal
	Count   int64
}

// MovementRepository defines the interface for movement persistence operations.
// Every query is scoped to the owning user.
type MovementRepository interface {
	Create(ctx context.Context, movement *Movement) (*Movement, error)
	GetByID(ctx context.Context, userID, id int32) (*Movement, error)
	List(ctx context.Context, userID int32, filter MovementFilter) ([]*Movement, error)
	ListDetailed(ctx context.Context, userID int32, since time.Time) ([]*MovementDetail, error)
	Totals(ctx context.Context, userID int32, filter MovementFilter) (*MovementTotals, error)
	CountByCategory(ctx context.Context, userID, categoryID int32) (int64, error)
	Update(ctx context.Context, movement *Movement) (*Movement, error)
	SetReceiptKey(ctx context.Context, userID, id int32, key *string) error
	Delete(ctx context.Context, userID, id int32) error
}

var maxMoneyMagnitude = decimal.New(1, MoneyIntegerDigits)

// ValidateMoney reports whether v fits a money column without rounding or overflow
func ValidateMoney(v decimal.Decimal) error {
	if !v.Equal(v.Truncate(MoneyScale)) {
		return ErrValueScale
	}
	if v.Abs().GreaterThanOrEqual(maxMoneyMagnitude) {
		return ErrValueOutOfRange
	}
	return nil
}
