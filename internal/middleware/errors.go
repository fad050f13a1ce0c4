package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails represents an RFC 7807 Problem Details response
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error types
const (
	errorTypeUnauthorized = "https://marginalwallet.app/errors/unauthorized"
	errorTypeRateLimit    = "https://marginalwallet.app/errors/rate-limit"
	errorTypeInternal     = "https://marginalwallet.app/errors/internal"
)

// unauthorizedError creates an unauthorized error response carrying the bearer challenge
func unauthorizedError(c echo.Context, detail string) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, problemDetails{
		Type:     errorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// problemBody builds a Problem Details body
func problemBody(status int, typ, title, detail, instance string) problemDetails {
	return problemDetails{
		Type:     typ,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}
