package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrUnavailable   = errors.New("service unavailable")
)

// Not-found errors. Missing rows and rows owned by another user are reported identically.
var (
	ErrUserNotFound           = fmt.Errorf("user: %w", ErrNotFound)
	ErrCategoryNotFound       = fmt.Errorf("category: %w", ErrNotFound)
	ErrMovementNotFound       = fmt.Errorf("movement: %w", ErrNotFound)
	ErrPlannedExpenseNotFound = fmt.Errorf("planned expense: %w", ErrNotFound)
	ErrActivityLogNotFound    = fmt.Errorf("activity log: %w", ErrNotFound)
	ErrReceiptNotFound        = fmt.Errorf("receipt: %w", ErrNotFound)
	ErrNoRecentMovements      = fmt.Errorf("recent movements: %w", ErrNotFound)
)

// Conflict and business-rule errors
var (
	ErrUserAlreadyExists        = fmt.Errorf("user: %w", ErrAlreadyExists)
	ErrActivityLogAlreadyExists = fmt.Errorf("activity log: %w", ErrAlreadyExists)
	ErrCategoryHasMovements     = errors.New("category has associated movements")
	ErrPasswordMismatch         = errors.New("new passwords do not match")
	ErrCategoryRequired         = errors.New("category_id cannot be null")
	ErrIncorrectPassword        = fmt.Errorf("incorrect password: %w", ErrForbidden)
	ErrInvalidCredentials       = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
)

// Validation errors
var (
	ErrNameRequired         = fmt.Errorf("name is required: %w", ErrInvalidInput)
	ErrNameTooLong          = fmt.Errorf("name exceeds maximum length: %w", ErrInvalidInput)
	ErrEmailRequired        = fmt.Errorf("email is required: %w", ErrInvalidInput)
	ErrInvalidEmail         = fmt.Errorf("email is malformed: %w", ErrInvalidInput)
	ErrPasswordRequired     = fmt.Errorf("password is required: %w", ErrInvalidInput)
	ErrPasswordTooLong      = fmt.Errorf("password exceeds 72 bytes: %w", ErrInvalidInput)
	ErrInvalidCategoryType  = fmt.Errorf("invalid category type: %w", ErrInvalidInput)
	ErrCounterpartyRequired = fmt.Errorf("counterparty is required: %w", ErrInvalidInput)
	ErrCounterpartyTooLong  = fmt.Errorf("counterparty exceeds maximum length: %w", ErrInvalidInput)
	ErrInvalidCurrency      = fmt.Errorf("invalid currency: %w", ErrInvalidInput)
	ErrInvalidPaymentMethod = fmt.Errorf("invalid payment method: %w", ErrInvalidInput)
	ErrInvalidFrequency     = fmt.Errorf("invalid frequency: %w", ErrInvalidInput)
	ErrDescriptionRequired  = fmt.Errorf("description is required: %w", ErrInvalidInput)
	ErrDescriptionTooLong   = fmt.Errorf("description exceeds maximum length: %w", ErrInvalidInput)
	ErrValueRequired        = fmt.Errorf("value is required: %w", ErrInvalidInput)
	ErrValueOutOfRange      = fmt.Errorf("value must be between -9999999999.99 and 9999999999.99: %w", ErrInvalidInput)
	ErrValueScale           = fmt.Errorf("value must have at most 2 decimal places: %w", ErrInvalidInput)
	ErrDateRequired         = fmt.Errorf("date is required: %w", ErrInvalidInput)
	ErrInvalidSortOrder     = fmt.Errorf("invalid sort order: %w", ErrInvalidInput)
	ErrInvalidTimeFilter    = fmt.Errorf("invalid time filter: %w", ErrInvalidInput)
	ErrInvalidPagination    = fmt.Errorf("invalid pagination: %w", ErrInvalidInput)
)

// Optional collaborators
var (
	ErrStorageNotConfigured  = fmt.Errorf("receipt storage not configured: %w", ErrUnavailable)
	ErrInsightsNotConfigured = fmt.Errorf("insight generator not configured: %w", ErrUnavailable)
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxCounterpartyLen   = 255
	MaxDescriptionLength = 1000

	// MoneyScale and MoneyIntegerDigits match the NUMERIC(12,2) money columns
	MoneyScale         = 2
	MoneyIntegerDigits = 10
)
