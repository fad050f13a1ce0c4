package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/service"
)

// AuthHandler issues access tokens
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TokenResponse represents an issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token handles POST /auth/token with form fields username (the email) and password
func (h *AuthHandler) Token(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "username", Message: "Username and password are required"},
		})
	}

	result, err := h.authService.Login(c.Request().Context(), username, password)
	if err != nil {
		return respondError(c, err, 0, "Failed to issue token")
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   int64(time.Until(result.ExpiresAt).Seconds()),
	})
}
