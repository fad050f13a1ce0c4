package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://marginalwallet.app/errors/validation"
	ErrorTypeBadRequest   = "https://marginalwallet.app/errors/bad-request"
	ErrorTypeNotFound     = "https://marginalwallet.app/errors/not-found"
	ErrorTypeUnauthorized = "https://marginalwallet.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://marginalwallet.app/errors/forbidden"
	ErrorTypeConflict     = "https://marginalwallet.app/errors/conflict"
	ErrorTypeUnavailable  = "https://marginalwallet.app/errors/unavailable"
	ErrorTypeInternal     = "https://marginalwallet.app/errors/internal"
)

// Error details shared by several routes
const (
	DetailUserExists         = "Username or email already exists"
	DetailIncorrectLogin     = "Incorrect username or password"
	DetailIncorrectPassword  = "Incorrect current password."
	DetailPasswordMismatch   = "New passwords do not match."
	DetailCategoryInUse      = "Category has associated movements and cannot be deleted."
	DetailCategoryRequired   = "category_id cannot be null"
	DetailActivityLogExists  = "Movement already has an activity log"
	DetailInvalidRequestBody = "Invalid request body"
)

func problem(c echo.Context, status int, typ, title, detail string, errs []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     typ,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, http.StatusUnprocessableEntity, ErrorTypeValidation, "Validation Error", detail, errors)
}

// NewBadRequestError creates a bad request error response for rejected business rules
func NewBadRequestError(c echo.Context, detail string) error {
	return problem(c, http.StatusBadRequest, ErrorTypeBadRequest, "Bad Request", detail, nil)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail, nil)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail, nil)
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return problem(c, http.StatusForbidden, ErrorTypeForbidden, "Forbidden", detail, nil)
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeConflict, "Conflict", detail, nil)
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return problem(c, http.StatusServiceUnavailable, ErrorTypeUnavailable, "Service Unavailable", detail, nil)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail, nil)
}

var notFoundDetails = []struct {
	err    error
	detail string
}{
	{domain.ErrCategoryNotFound, "Category not found"},
	{domain.ErrMovementNotFound, "Movement not found"},
	{domain.ErrPlannedExpenseNotFound, "Planned expense not found"},
	{domain.ErrActivityLogNotFound, "Activity log not found"},
	{domain.ErrReceiptNotFound, "Receipt not found"},
	{domain.ErrNoRecentMovements, "No movements found for the last three months."},
	{domain.ErrUserNotFound, "User not found"},
}

// trimWrapped strips the generic sentinel suffix from a wrapped error message
func trimWrapped(err, base error) string {
	return strings.TrimSuffix(err.Error(), ": "+base.Error())
}

// respondError maps a service error to its Problem Details response.
// Anything unrecognized is logged and reported as a generic 500 with msg.
func respondError(c echo.Context, err error, userID int32, msg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		for _, nf := range notFoundDetails {
			if errors.Is(err, nf.err) {
				return NewNotFoundError(c, nf.detail)
			}
		}
		return NewNotFoundError(c, "Not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return NewBadRequestError(c, DetailUserExists)
	case errors.Is(err, domain.ErrActivityLogAlreadyExists):
		return NewConflictError(c, DetailActivityLogExists)
	case errors.Is(err, domain.ErrCategoryHasMovements):
		return NewBadRequestError(c, DetailCategoryInUse)
	case errors.Is(err, domain.ErrPasswordMismatch):
		return NewBadRequestError(c, DetailPasswordMismatch)
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewBadRequestError(c, DetailCategoryRequired)
	case errors.Is(err, domain.ErrIncorrectPassword):
		return NewForbiddenError(c, DetailIncorrectPassword)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return NewUnauthorizedError(c, DetailIncorrectLogin)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedError(c, "Could not validate credentials")
	case errors.Is(err, domain.ErrUnavailable):
		return NewServiceUnavailableError(c, trimWrapped(err, domain.ErrUnavailable))
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: fieldFor(err), Message: trimWrapped(err, domain.ErrInvalidInput)},
		})
	}

	log.Error().Err(err).Int32("user_id", userID).Str("path", c.Request().URL.Path).Msg(msg)
	return NewInternalError(c, msg)
}

var validationFields = []struct {
	err   error
	field string
}{
	{domain.ErrNameRequired, "name"},
	{domain.ErrNameTooLong, "name"},
	{domain.ErrEmailRequired, "email"},
	{domain.ErrInvalidEmail, "email"},
	{domain.ErrPasswordRequired, "password"},
	{domain.ErrPasswordTooLong, "password"},
	{domain.ErrInvalidCategoryType, "category_type"},
	{domain.ErrCounterpartyRequired, "counterparty"},
	{domain.ErrCounterpartyTooLong, "counterparty"},
	{domain.ErrInvalidCurrency, "currency"},
	{domain.ErrInvalidPaymentMethod, "payment_method"},
	{domain.ErrInvalidFrequency, "frequency"},
	{domain.ErrDescriptionRequired, "description"},
	{domain.ErrDescriptionTooLong, "description"},
	{domain.ErrValueRequired, "value"},
	{domain.ErrValueOutOfRange, "value"},
	{domain.ErrValueScale, "value"},
	{domain.ErrDateRequired, "date"},
	{domain.ErrInvalidSortOrder, "sort_order"},
	{domain.ErrInvalidTimeFilter, "time_filter"},
	{domain.ErrInvalidPagination, "limit"},
	{service.ErrImageTooLarge, "file"},
	{service.ErrInvalidFormat, "file"},
	{service.ErrImageTooSmall, "file"},
	{service.ErrInvalidImageData, "file"},
}

func fieldFor(err error) string {
	for _, vf := range validationFields {
		if errors.Is(err, vf.err) {
			return vf.field
		}
	}
	return ""
}
