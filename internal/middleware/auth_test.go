package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/auth"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	subjects map[string]string
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if subject, ok := f.subjects[token]; ok {
		return &auth.Claims{Subject: subject}, nil
	}
	return nil, auth.ErrInvalidToken
}

type fakeResolver struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeResolver) ResolveUser(ctx context.Context, subject string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.users[subject]; ok {
		return user, nil
	}
	return nil, domain.ErrUnauthorized
}

func newTestAuthMiddleware(resolverErr error) *AuthMiddleware {
	verifier := &fakeVerifier{subjects: map[string]string{
		"good":  "alice@example.com",
		"ghost": "ghost@example.com",
	}}
	resolver := &fakeResolver{
		users: map[string]*domain.User{"alice@example.com": {ID: 7, Email: "alice@example.com"}},
		err:   resolverErr,
	}
	return NewAuthMiddleware(verifier, resolver)
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		resolveErr error
		wantStatus int
		wantDetail string
	}{
		{"valid token", "Bearer good", nil, http.StatusOK, ""},
		{"lowercase scheme", "bearer good", nil, http.StatusOK, ""},
		{"missing header", "", nil, http.StatusUnauthorized, DetailNotAuthenticated},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized, DetailNotAuthenticated},
		{"empty token", "Bearer ", nil, http.StatusUnauthorized, DetailNotAuthenticated},
		{"invalid token", "Bearer forged", nil, http.StatusUnauthorized, DetailInvalidCredentials},
		{"unknown user", "Bearer ghost", nil, http.StatusUnauthorized, DetailInvalidCredentials},
		{"lookup failure", "Bearer good", errors.New("db down"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen *domain.User
			handler := newTestAuthMiddleware(tt.resolveErr).Authenticate()(func(c echo.Context) error {
				seen = GetUser(c)
				return c.NoContent(http.StatusOK)
			})

			require.NoError(t, handler(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, int32(7), seen.ID)
				return
			}
			assert.Nil(t, seen)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				var body problemDetails
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantDetail, body.Detail)
			}
		})
	}
}

func TestGetUser_Absent(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Nil(t, GetUser(c))
	assert.Equal(t, int32(0), GetUserID(c))
}

func TestUserFromToken(t *testing.T) {
	m := newTestAuthMiddleware(nil)

	user, err := m.UserFromToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, int32(7), user.ID)

	_, err = m.UserFromToken(context.Background(), "forged")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
