package service

import (
	"context"
	"testing"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMovementService() (*MovementService, *testutil.MockRepositories) {
	repos := testutil.NewMockRepositories()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: ownerID, Type: domain.CategoryTypeMinijob, Counterparty: "Cafe"})
	repos.Categories.AddCategory(&domain.Category{ID: 2, UserID: strangerID, Type: domain.CategoryTypeMinijob, Counterparty: "Other"})
	service := NewMovementService(repos.Movements, repos.ActivityLogs, newTestGuard(repos))
	service.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return service, repos
}

func validMovementInput(categoryID int32) CreateMovementInput {
	return CreateMovementInput{
		CategoryID:    categoryID,
		MovementDate:  date(2024, 6, 1),
		Value:         dec("120.50"),
		Currency:      domain.CurrencyEuro,
		PaymentMethod: domain.PaymentMethodCash,
	}
}

func TestCreateMovement_Success(t *testing.T) {
	service, _ := newTestMovementService()

	movement, err := service.CreateMovement(context.Background(), ownerID, validMovementInput(1))
	require.NoError(t, err)

	assert.Equal(t, ownerID, movement.UserID)
	assert.Equal(t, int32(1), movement.CategoryID)
	assert.True(t, movement.Value.Equal(dec("120.5")))
}

func TestCreateMovement_ForeignCategoryCreatesNothing(t *testing.T) {
	service, repos := newTestMovementService()

	_, err := service.CreateMovement(context.Background(), ownerID, validMovementInput(2))
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	assert.Empty(t, repos.Movements.Movements)

	_, err = service.CreateMovement(context.Background(), ownerID, validMovementInput(42))
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	assert.Empty(t, repos.Movements.Movements)
}

func TestCreateMovement_Validation(t *testing.T) {
	service, _ := newTestMovementService()

	noDate := validMovementInput(1)
	noDate.MovementDate = time.Time{}
	badCurrency := validMovementInput(1)
	badCurrency.Currency = "GBP"
	badMethod := validMovementInput(1)
	badMethod.PaymentMethod = "Cheque"
	tooPrecise := validMovementInput(1)
	tooPrecise.Value = dec("10.005")
	tooLarge := validMovementInput(1)
	tooLarge.Value = dec("10000000000")

	tests := []struct {
		name  string
		input CreateMovementInput
		want  error
	}{
		{"missing date", noDate, domain.ErrDateRequired},
		{"bad currency", badCurrency, domain.ErrInvalidCurrency},
		{"bad payment method", badMethod, domain.ErrInvalidPaymentMethod},
		{"more than two decimals", tooPrecise, domain.ErrValueScale},
		{"value overflows column", tooLarge, domain.ErrValueOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateMovement(context.Background(), ownerID, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateMovement_EventWaitsForCommit(t *testing.T) {
	service, _ := newTestMovementService()
	publisher := &testutil.MockEventPublisher{}
	service.SetEventPublisher(publisher)
	txManager := testutil.NewMockTxManager()

	ctx, tx, err := txManager.Begin(context.Background())
	require.NoError(t, err)

	_, err = service.CreateMovement(ctx, ownerID, validMovementInput(1))
	require.NoError(t, err)
	assert.Empty(t, publisher.Events)

	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, []string{"movement.created"}, publisher.Types())
}

func TestCreateMovement_RolledBackPublishesNothing(t *testing.T) {
	service, _ := newTestMovementService()
	publisher := &testutil.MockEventPublisher{}
	service.SetEventPublisher(publisher)
	txManager := testutil.NewMockTxManager()

	ctx, tx, err := txManager.Begin(context.Background())
	require.NoError(t, err)

	_, err = service.CreateMovement(ctx, ownerID, validMovementInput(1))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	assert.Empty(t, publisher.Events)
}

func TestGetMovements_TimeFilters(t *testing.T) {
	service, repos := newTestMovementService()
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 6, 3), Value: dec("1")})
	repos.Movements.AddMovement(&domain.Movement{ID: 2, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 5, 20), Value: dec("2")})
	repos.Movements.AddMovement(&domain.Movement{ID: 3, UserID: ownerID, CategoryID: 1, MovementDate: date(2023, 12, 1), Value: dec("3")})
	repos.Movements.AddMovement(&domain.Movement{ID: 4, UserID: strangerID, CategoryID: 2, MovementDate: date(2024, 6, 4), Value: dec("4")})

	ids := func(movements []*domain.Movement) []int32 {
		out := make([]int32, 0, len(movements))
		for _, m := range movements {
			out = append(out, m.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		input ListMovementsInput
		want  []int32
	}{
		{"defaults to last month, newest first", ListMovementsInput{Page: domain.DefaultPage()}, []int32{1}},
		{"last 3 months", ListMovementsInput{TimeFilter: domain.TimeFilterLast3Months, Page: domain.DefaultPage()}, []int32{1, 2}},
		{"all ascending", ListMovementsInput{TimeFilter: domain.TimeFilterAll, Sort: domain.SortAsc, Page: domain.DefaultPage()}, []int32{3, 2, 1}},
		{"all paged", ListMovementsInput{TimeFilter: domain.TimeFilterAll, Page: domain.Page{Skip: 1, Limit: 1}}, []int32{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movements, err := service.GetMovements(context.Background(), ownerID, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(movements))
		})
	}
}

func TestGetMovements_InvalidQuery(t *testing.T) {
	service, _ := newTestMovementService()

	_, err := service.GetMovements(context.Background(), ownerID, ListMovementsInput{Sort: "sideways", Page: domain.DefaultPage()})
	assert.ErrorIs(t, err, domain.ErrInvalidSortOrder)

	_, err = service.GetMovements(context.Background(), ownerID, ListMovementsInput{TimeFilter: "forever", Page: domain.DefaultPage()})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeFilter)

	_, err = service.GetMovements(context.Background(), ownerID, ListMovementsInput{Page: domain.Page{Skip: -1, Limit: 10}})
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)
}

func TestUpdateMovement(t *testing.T) {
	service, repos := newTestMovementService()
	repos.Categories.AddCategory(&domain.Category{ID: 3, UserID: ownerID, Type: domain.CategoryTypeExpenses, Counterparty: "Rent"})
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 6, 3), Value: dec("10"), Currency: domain.CurrencyEuro, PaymentMethod: domain.PaymentMethodCash})
	ctx := context.Background()

	t.Run("partial", func(t *testing.T) {
		value := dec("-25")
		movement, err := service.UpdateMovement(ctx, ownerID, 1, UpdateMovementInput{Value: &value})
		require.NoError(t, err)
		assert.True(t, movement.Value.Equal(value))
		assert.Equal(t, domain.CurrencyEuro, movement.Currency)
		assert.Equal(t, int32(1), movement.CategoryID)
	})

	t.Run("move to owned category", func(t *testing.T) {
		categoryID := int32(3)
		movement, err := service.UpdateMovement(ctx, ownerID, 1, UpdateMovementInput{CategoryID: &categoryID})
		require.NoError(t, err)
		assert.Equal(t, int32(3), movement.CategoryID)
	})

	t.Run("move to foreign category", func(t *testing.T) {
		categoryID := int32(2)
		_, err := service.UpdateMovement(ctx, ownerID, 1, UpdateMovementInput{CategoryID: &categoryID})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
		assert.Equal(t, int32(3), repos.Movements.Movements[1].CategoryID)
	})

	t.Run("null category", func(t *testing.T) {
		_, err := service.UpdateMovement(ctx, ownerID, 1, UpdateMovementInput{CategoryIDNull: true})
		assert.ErrorIs(t, err, domain.ErrCategoryRequired)
	})

	t.Run("value out of range", func(t *testing.T) {
		value := dec("-10000000000")
		_, err := service.UpdateMovement(ctx, ownerID, 1, UpdateMovementInput{Value: &value})
		assert.ErrorIs(t, err, domain.ErrValueOutOfRange)
		assert.True(t, repos.Movements.Movements[1].Value.Equal(dec("-25")))
	})

	t.Run("value with three decimals", func(t *testing.T) {
		value := dec("3.141")
		_, err := service.UpdateMovement(ctx, ownerID, 1, UpdateMovementInput{Value: &value})
		assert.ErrorIs(t, err, domain.ErrValueScale)
		assert.True(t, repos.Movements.Movements[1].Value.Equal(dec("-25")))
	})

	t.Run("not owned", func(t *testing.T) {
		value := dec("1")
		_, err := service.UpdateMovement(ctx, strangerID, 1, UpdateMovementInput{Value: &value})
		assert.ErrorIs(t, err, domain.ErrMovementNotFound)
	})
}

func TestDeleteMovement_RemovesActivityLogAndRunsHooks(t *testing.T) {
	service, repos := newTestMovementService()
	receiptKey := "receipts/1/1/abc/"
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 6, 3), ReceiptKey: &receiptKey})
	repos.ActivityLogs.ActivityLogs[1] = &domain.ActivityLog{ID: 1, MovementID: 1, Description: "tip"}

	var purged []string
	service.OnDelete(func(ctx context.Context, movement *domain.Movement) {
		purged = append(purged, *movement.ReceiptKey)
	})

	assert.ErrorIs(t, service.DeleteMovement(context.Background(), strangerID, 1), domain.ErrMovementNotFound)

	require.NoError(t, service.DeleteMovement(context.Background(), ownerID, 1))
	assert.Empty(t, repos.Movements.Movements)
	assert.Empty(t, repos.ActivityLogs.ActivityLogs)
	assert.Equal(t, []string{receiptKey}, purged)
}

func TestAddActivityLog(t *testing.T) {
	service, repos := newTestMovementService()
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 6, 3)})
	ctx := context.Background()

	log, err := service.AddActivityLog(ctx, ownerID, 1, " Worked a double shift ")
	require.NoError(t, err)
	assert.Equal(t, "Worked a double shift", log.Description)
	assert.Equal(t, int32(1), log.MovementID)

	_, err = service.AddActivityLog(ctx, ownerID, 1, "again")
	assert.ErrorIs(t, err, domain.ErrActivityLogAlreadyExists)

	_, err = service.AddActivityLog(ctx, strangerID, 1, "not mine")
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)

	_, err = service.AddActivityLog(ctx, ownerID, 1, "  ")
	assert.ErrorIs(t, err, domain.ErrDescriptionRequired)
}
