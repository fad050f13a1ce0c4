package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/auth"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// Error details returned on authentication failure
const (
	DetailNotAuthenticated   = "Not authenticated"
	DetailInvalidCredentials = "Could not validate credentials"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserKey is the context key for the authenticated user
const UserKey contextKey = "user"

// TokenVerifier checks a bearer token and returns its claims
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// UserResolver looks up the user a token subject names
type UserResolver interface {
	ResolveUser(ctx context.Context, subject string) (*domain.User, error)
}

// AuthMiddleware verifies bearer tokens and loads the caller
type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// UserFromToken verifies token and resolves its user. Every failure is domain.ErrUnauthorized
// except lookup errors other than an unknown user.
func (m *AuthMiddleware) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := m.verifier.Verify(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("Token validation failed")
		return nil, domain.ErrUnauthorized
	}
	return m.users.ResolveUser(ctx, claims.Subject)
}

// Authenticate returns an Echo middleware that requires a valid bearer token
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, DetailNotAuthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthorizedError(c, DetailNotAuthenticated)
			}

			user, err := m.UserFromToken(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return unauthorizedError(c, DetailInvalidCredentials)
				}
				log.Error().Err(err).Msg("Failed to resolve user")
				return c.JSON(http.StatusInternalServerError, problemBody(http.StatusInternalServerError,
					errorTypeInternal, "Internal Server Error", "Failed to authenticate request", c.Request().URL.Path))
			}

			ctx := context.WithValue(c.Request().Context(), UserKey, user)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUser extracts the authenticated user from the context
func GetUser(c echo.Context) *domain.User {
	if user, ok := c.Request().Context().Value(UserKey).(*domain.User); ok {
		return user
	}
	return nil
}

// GetUserID extracts the authenticated user's ID from the context
func GetUserID(c echo.Context) int32 {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return 0
}
