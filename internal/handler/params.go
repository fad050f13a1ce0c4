package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/util"
	"github.com/shopspring/decimal"
)

// parseID reads a positive int32 path parameter
func parseID(c echo.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// parsePage reads skip/limit query parameters, defaulting to the first page
func parsePage(c echo.Context) (domain.Page, bool) {
	page := domain.DefaultPage()
	if raw := c.QueryParam("skip"); raw != "" {
		skip, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return page, false
		}
		page.Skip = int32(skip)
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return page, false
		}
		page.Limit = int32(limit)
	}
	return page, true
}

func invalidIDError(c echo.Context, resource string) error {
	return NewValidationError(c, "Invalid "+resource+" ID", []ValidationError{
		{Field: "id", Message: "Must be a positive integer"},
	})
}

func invalidPageError(c echo.Context) error {
	return NewValidationError(c, "Invalid pagination", []ValidationError{
		{Field: "skip", Message: "Must be an integer >= 0"},
		{Field: "limit", Message: "Must be an integer between 1 and 200"},
	})
}

// parseDateField parses an optional YYYY-MM-DD request field
func parseDateField(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := util.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// formatMoney renders a money value with two decimals
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
