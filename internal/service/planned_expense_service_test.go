package service

import (
	"context"
	"errors"
	"testing"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/testutil"
)

func newTestPlannedExpenseService() (*PlannedExpenseService, *testutil.MockRepositories) {
	repos := testutil.NewMockRepositories()
	return NewPlannedExpenseService(repos.PlannedExpenses, newTestGuard(repos)), repos
}

func TestCreatePlannedExpense_Success(t *testing.T) {
	service, _ := newTestPlannedExpenseService()

	expense, err := service.CreatePlannedExpense(context.Background(), ownerID, CreatePlannedExpenseInput{
		AproxDate:   date(2024, 7, 1),
		Value:       dec("500"),
		Currency:    domain.CurrencyEuro,
		Frequency:   domain.FrequencyMonthly,
		Description: "Rent",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if expense.Description != "Rent" {
		t.Errorf("Expected description 'Rent', got '%s'", expense.Description)
	}
	if expense.UserID != ownerID {
		t.Errorf("Expected user ID %d, got %d", ownerID, expense.UserID)
	}
}

func TestCreatePlannedExpense_InvalidFrequency(t *testing.T) {
	service, _ := newTestPlannedExpenseService()

	_, err := service.CreatePlannedExpense(context.Background(), ownerID, CreatePlannedExpenseInput{
		AproxDate:   date(2024, 7, 1),
		Value:       dec("500"),
		Currency:    domain.CurrencyEuro,
		Frequency:   "Daily",
		Description: "Rent",
	})
	if !errors.Is(err, domain.ErrInvalidFrequency) {
		t.Errorf("Expected ErrInvalidFrequency, got %v", err)
	}
}

func TestCreatePlannedExpense_EmptyDescription(t *testing.T) {
	service, _ := newTestPlannedExpenseService()

	_, err := service.CreatePlannedExpense(context.Background(), ownerID, CreatePlannedExpenseInput{
		AproxDate: date(2024, 7, 1),
		Value:     dec("500"),
		Currency:  domain.CurrencyUSD,
		Frequency: domain.FrequencyOneTime,
	})
	if !errors.Is(err, domain.ErrDescriptionRequired) {
		t.Errorf("Expected ErrDescriptionRequired, got %v", err)
	}
}

func TestCreatePlannedExpense_ValueBounds(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"largest value", "9999999999.99", nil},
		{"trailing zeros", "12.500", nil},
		{"overflow", "10000000000", domain.ErrValueOutOfRange},
		{"more than two decimals", "10.005", domain.ErrValueScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repos := newTestPlannedExpenseService()

			_, err := service.CreatePlannedExpense(context.Background(), ownerID, CreatePlannedExpenseInput{
				AproxDate:   date(2024, 7, 1),
				Value:       dec(tt.value),
				Currency:    domain.CurrencyEuro,
				Frequency:   domain.FrequencyYearly,
				Description: "Insurance",
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if tt.want != nil && len(repos.PlannedExpenses.PlannedExpenses) != 0 {
				t.Error("Expected nothing to be stored")
			}
		})
	}
}

func TestUpdatePlannedExpense_RejectsUnstorableValue(t *testing.T) {
	service, repos := newTestPlannedExpenseService()
	repos.PlannedExpenses.PlannedExpenses[1] = &domain.PlannedExpense{
		ID: 1, UserID: ownerID, AproxDate: date(2024, 7, 1), Value: dec("400"),
		Currency: domain.CurrencyEuro, Frequency: domain.FrequencyMonthly, Description: "Rent",
	}

	for _, raw := range []string{"1e10", "0.001"} {
		value := dec(raw)
		_, err := service.UpdatePlannedExpense(context.Background(), ownerID, 1, UpdatePlannedExpenseInput{Value: &value})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Value %s: expected ErrInvalidInput, got %v", raw, err)
		}
	}
	if !repos.PlannedExpenses.PlannedExpenses[1].Value.Equal(dec("400")) {
		t.Errorf("Expected stored value 400, got %s", repos.PlannedExpenses.PlannedExpenses[1].Value)
	}
}

func TestUpdatePlannedExpense_ValueOnlyKeepsDescription(t *testing.T) {
	service, repos := newTestPlannedExpenseService()
	repos.PlannedExpenses.PlannedExpenses[1] = &domain.PlannedExpense{
		ID: 1, UserID: ownerID, AproxDate: date(2024, 7, 1), Value: dec("400"),
		Currency: domain.CurrencyEuro, Frequency: domain.FrequencyMonthly, Description: "Rent",
	}

	value := dec("450.0")
	expense, err := service.UpdatePlannedExpense(context.Background(), ownerID, 1, UpdatePlannedExpenseInput{Value: &value})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !expense.Value.Equal(dec("450")) {
		t.Errorf("Expected value 450, got %s", expense.Value)
	}
	if expense.Description != "Rent" {
		t.Errorf("Expected description 'Rent', got '%s'", expense.Description)
	}
	if expense.Frequency != domain.FrequencyMonthly {
		t.Errorf("Expected frequency Monthly, got %s", expense.Frequency)
	}
}

func TestPlannedExpense_NotOwned(t *testing.T) {
	service, repos := newTestPlannedExpenseService()
	repos.PlannedExpenses.PlannedExpenses[1] = &domain.PlannedExpense{ID: 1, UserID: strangerID, Description: "Theirs"}
	ctx := context.Background()

	if _, err := service.GetPlannedExpense(ctx, ownerID, 1); !errors.Is(err, domain.ErrPlannedExpenseNotFound) {
		t.Errorf("Expected ErrPlannedExpenseNotFound on get, got %v", err)
	}
	if err := service.DeletePlannedExpense(ctx, ownerID, 1); !errors.Is(err, domain.ErrPlannedExpenseNotFound) {
		t.Errorf("Expected ErrPlannedExpenseNotFound on delete, got %v", err)
	}
	if _, ok := repos.PlannedExpenses.PlannedExpenses[1]; !ok {
		t.Error("Expected foreign planned expense to survive")
	}
}

func TestGetPlannedExpenses_OrderedByDate(t *testing.T) {
	service, repos := newTestPlannedExpenseService()
	repos.PlannedExpenses.PlannedExpenses[1] = &domain.PlannedExpense{ID: 1, UserID: ownerID, AproxDate: date(2024, 9, 1)}
	repos.PlannedExpenses.PlannedExpenses[2] = &domain.PlannedExpense{ID: 2, UserID: ownerID, AproxDate: date(2024, 7, 1)}
	repos.PlannedExpenses.PlannedExpenses[3] = &domain.PlannedExpense{ID: 3, UserID: strangerID, AproxDate: date(2024, 1, 1)}

	expenses, err := service.GetPlannedExpenses(context.Background(), ownerID, domain.DefaultPage())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(expenses) != 2 || expenses[0].ID != 2 || expenses[1].ID != 1 {
		t.Errorf("Expected planned expenses [2 1], got %v", expenses)
	}
}
