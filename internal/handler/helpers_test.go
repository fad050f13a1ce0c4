package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/marginalwallet/wallet-api/internal/testutil"
	"github.com/shopspring/decimal"
)

const testPassword = "s3cret-pass"

// testEnv holds linked in-memory repositories with two registered users
type testEnv struct {
	repos    *testutil.MockRepositories
	guard    *service.OwnershipGuard
	owner    *domain.User
	stranger *domain.User
}

func newTestEnv() *testEnv {
	repos := testutil.NewMockRepositories()
	owner := &domain.User{ID: 1, Name: "alice", Email: "alice@example.com", PasswordHash: "hashed:" + testPassword}
	stranger := &domain.User{ID: 2, Name: "bob", Email: "bob@example.com", PasswordHash: "hashed:" + testPassword}
	repos.Users.AddUser(owner)
	repos.Users.AddUser(stranger)

	return &testEnv{
		repos:    repos,
		guard:    service.NewOwnershipGuard(repos.Categories, repos.Movements, repos.PlannedExpenses, repos.ActivityLogs),
		owner:    owner,
		stranger: stranger,
	}
}

func (env *testEnv) addCategory(id, userID int32, ct domain.CategoryType, counterparty string) {
	env.repos.Categories.AddCategory(&domain.Category{ID: id, UserID: userID, Type: ct, Counterparty: counterparty})
}

func (env *testEnv) addMovement(id, userID, categoryID int32, date time.Time, value string) {
	env.repos.Movements.AddMovement(&domain.Movement{
		ID:            id,
		UserID:        userID,
		CategoryID:    categoryID,
		MovementDate:  date,
		Value:         decimal.RequireFromString(value),
		Currency:      domain.CurrencyEuro,
		PaymentMethod: domain.PaymentMethodCash,
	})
}

// setupAuthContext puts user into the request context the way Authenticate does
func setupAuthContext(c echo.Context, user *domain.User) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserKey, user)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newRequestContext(method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return newRequestContext(method, target, reader, echo.MIMEApplicationJSON)
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	return problem
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
