package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/marginalwallet/wallet-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInsights_NotConfigured(t *testing.T) {
	env := newTestEnv()
	handler := NewInsightHandler(service.NewInsightService(env.repos.Movements, nil))

	c, rec := newJSONContext(http.MethodGet, "/users/me/insights", "")
	setupAuthContext(c, env.owner)
	require.NoError(t, handler.GetInsights(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetInsights_NoRecentMovements(t *testing.T) {
	env := newTestEnv()
	handler := NewInsightHandler(service.NewInsightService(env.repos.Movements, &testutil.MockGenerator{Text: "unused"}))

	c, rec := newJSONContext(http.MethodGet, "/users/me/insights", "")
	setupAuthContext(c, env.owner)
	require.NoError(t, handler.GetInsights(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No movements found for the last three months.", decodeProblem(t, rec).Detail)
}

func TestGetInsights_Success(t *testing.T) {
	env := newTestEnv()
	generator := &testutil.MockGenerator{Text: "You earned more than you spent."}
	handler := NewInsightHandler(service.NewInsightService(env.repos.Movements, generator))
	env.addCategory(1, env.owner.ID, domain.CategoryTypeMinijob, "Cafe")
	env.addMovement(1, env.owner.ID, 1, time.Now().UTC().AddDate(0, 0, -3), "120.00")

	c, rec := newJSONContext(http.MethodGet, "/users/me/insights", "")
	setupAuthContext(c, env.owner)
	require.NoError(t, handler.GetInsights(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"insights": "You earned more than you spent."}`, rec.Body.String())
	require.Len(t, generator.Prompts, 1)
	assert.Contains(t, generator.Prompts[0], "Cafe")
}

func TestGetInsights_GeneratorFailure(t *testing.T) {
	env := newTestEnv()
	generator := &testutil.MockGenerator{Err: errors.New("quota exceeded")}
	handler := NewInsightHandler(service.NewInsightService(env.repos.Movements, generator))
	env.addCategory(1, env.owner.ID, domain.CategoryTypeMinijob, "Cafe")
	env.addMovement(1, env.owner.ID, 1, time.Now().UTC().AddDate(0, 0, -3), "120.00")

	c, rec := newJSONContext(http.MethodGet, "/users/me/insights", "")
	setupAuthContext(c, env.owner)
	require.NoError(t, handler.GetInsights(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "quota exceeded")
}
