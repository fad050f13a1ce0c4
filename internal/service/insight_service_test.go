package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInsightService(generator Generator) (*InsightService, *testutil.MockRepositories) {
	repos := testutil.NewMockRepositories()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: ownerID, Type: domain.CategoryTypeFreelance, Counterparty: "Acme"})
	service := NewInsightService(repos.Movements, generator)
	service.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return service, repos
}

func TestGenerateInsights_NotConfigured(t *testing.T) {
	service, _ := newTestInsightService(nil)

	assert.False(t, service.IsEnabled())
	_, err := service.GenerateInsights(context.Background(), ownerID)
	assert.ErrorIs(t, err, domain.ErrInsightsNotConfigured)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestGenerateInsights_NoRecentMovements(t *testing.T) {
	generator := &testutil.MockGenerator{Text: "unused"}
	service, repos := newTestInsightService(generator)
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2023, 1, 1), Value: dec("10")})

	_, err := service.GenerateInsights(context.Background(), ownerID)
	assert.ErrorIs(t, err, domain.ErrNoRecentMovements)
	assert.Empty(t, generator.Prompts)
}

func TestGenerateInsights_PromptCarriesMovements(t *testing.T) {
	generator := &testutil.MockGenerator{Text: "You earned well."}
	service, repos := newTestInsightService(generator)
	repos.Movements.AddMovement(&domain.Movement{
		ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 5, 2), Value: dec("250"),
		Currency: domain.CurrencyEuro, PaymentMethod: domain.PaymentMethodBankTransfer,
	})
	repos.ActivityLogs.ActivityLogs[1] = &domain.ActivityLog{ID: 1, MovementID: 1, Description: "Logo design"}

	text, err := service.GenerateInsights(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, "You earned well.", text)

	require.Len(t, generator.Prompts, 1)
	prompt := generator.Prompts[0]
	assert.Contains(t, prompt, `"date": "2024-05-02"`)
	assert.Contains(t, prompt, `"value": 250.00`)
	assert.Contains(t, prompt, `"payment_method": "Bank Transfer"`)
	assert.Contains(t, prompt, `"category": "Freelance"`)
	assert.Contains(t, prompt, `"stakeholder": "Acme"`)
	assert.Contains(t, prompt, `"activity_log": "Logo design"`)
}

func TestGenerateInsights_GeneratorError(t *testing.T) {
	genErr := errors.New("quota exceeded")
	service, repos := newTestInsightService(&testutil.MockGenerator{Err: genErr})
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 6, 1), Value: dec("1")})

	_, err := service.GenerateInsights(context.Background(), ownerID)
	assert.ErrorIs(t, err, genErr)
}
