package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/testutil"
)

func newTestCategoryService() (*CategoryService, *testutil.MockRepositories) {
	repos := testutil.NewMockRepositories()
	return NewCategoryService(repos.Categories, repos.Movements, newTestGuard(repos)), repos
}

func TestCreateCategory_Success(t *testing.T) {
	service, _ := newTestCategoryService()

	category, err := service.CreateCategory(context.Background(), ownerID, CreateCategoryInput{
		Type:         domain.CategoryTypeMinijob,
		Counterparty: "  Cafe  ",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Counterparty != "Cafe" {
		t.Errorf("Expected trimmed counterparty 'Cafe', got '%s'", category.Counterparty)
	}
	if category.UserID != ownerID {
		t.Errorf("Expected user ID %d, got %d", ownerID, category.UserID)
	}
}

func TestCreateCategory_InvalidType(t *testing.T) {
	service, _ := newTestCategoryService()

	_, err := service.CreateCategory(context.Background(), ownerID, CreateCategoryInput{
		Type:         "Lottery",
		Counterparty: "Cafe",
	})
	if !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}
}

func TestCreateCategory_BlankCounterparty(t *testing.T) {
	service, _ := newTestCategoryService()

	_, err := service.CreateCategory(context.Background(), ownerID, CreateCategoryInput{
		Type:         domain.CategoryTypeExpenses,
		Counterparty: "   ",
	})
	if !errors.Is(err, domain.ErrCounterpartyRequired) {
		t.Errorf("Expected ErrCounterpartyRequired, got %v", err)
	}
}

func TestCreateCategory_CounterpartyTooLong(t *testing.T) {
	service, repos := newTestCategoryService()

	_, err := service.CreateCategory(context.Background(), ownerID, CreateCategoryInput{
		Type:         domain.CategoryTypeFreelance,
		Counterparty: strings.Repeat("x", domain.MaxCounterpartyLen+1),
	})
	if !errors.Is(err, domain.ErrCounterpartyTooLong) {
		t.Errorf("Expected ErrCounterpartyTooLong, got %v", err)
	}
	if len(repos.Categories.Categories) != 0 {
		t.Error("Expected no category to be stored")
	}
}

func TestCreateCategory_PublishesEvent(t *testing.T) {
	service, _ := newTestCategoryService()
	publisher := &testutil.MockEventPublisher{}
	service.SetEventPublisher(publisher)

	_, err := service.CreateCategory(context.Background(), ownerID, CreateCategoryInput{
		Type:         domain.CategoryTypeFreelance,
		Counterparty: "Client",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(publisher.Events) != 1 || publisher.Events[0].Event.Type != "category.created" {
		t.Errorf("Expected one category.created event, got %v", publisher.Types())
	}
	if publisher.Events[0].UserID != ownerID {
		t.Errorf("Expected event for user %d, got %d", ownerID, publisher.Events[0].UserID)
	}
}

func TestGetCategories_FiltersByTypeAndOwner(t *testing.T) {
	service, repos := newTestCategoryService()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: ownerID, Type: domain.CategoryTypeMinijob, Counterparty: "A"})
	repos.Categories.AddCategory(&domain.Category{ID: 2, UserID: ownerID, Type: domain.CategoryTypeExpenses, Counterparty: "B"})
	repos.Categories.AddCategory(&domain.Category{ID: 3, UserID: strangerID, Type: domain.CategoryTypeMinijob, Counterparty: "C"})

	minijob := domain.CategoryTypeMinijob
	categories, err := service.GetCategories(context.Background(), ownerID, domain.CategoryFilter{
		Type: &minijob,
		Page: domain.DefaultPage(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(categories) != 1 || categories[0].ID != 1 {
		t.Errorf("Expected only category 1, got %v", categories)
	}
}

func TestGetCategories_InvalidPage(t *testing.T) {
	service, _ := newTestCategoryService()

	_, err := service.GetCategories(context.Background(), ownerID, domain.CategoryFilter{
		Page: domain.Page{Skip: 0, Limit: domain.MaxPageLimit + 1},
	})
	if !errors.Is(err, domain.ErrInvalidPagination) {
		t.Errorf("Expected ErrInvalidPagination, got %v", err)
	}
}

func TestGetCategory_ForeignAndMissingLookIdentical(t *testing.T) {
	service, repos := newTestCategoryService()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: strangerID, Type: domain.CategoryTypeMinijob, Counterparty: "A"})

	_, foreignErr := service.GetCategory(context.Background(), ownerID, 1)
	_, missingErr := service.GetCategory(context.Background(), ownerID, 99)

	if !errors.Is(foreignErr, domain.ErrCategoryNotFound) || !errors.Is(missingErr, domain.ErrCategoryNotFound) {
		t.Fatalf("Expected ErrCategoryNotFound for both, got %v and %v", foreignErr, missingErr)
	}
	if foreignErr.Error() != missingErr.Error() {
		t.Errorf("Expected identical errors, got %q and %q", foreignErr, missingErr)
	}
}

func TestUpdateCategory_Partial(t *testing.T) {
	service, repos := newTestCategoryService()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: ownerID, Type: domain.CategoryTypeMinijob, Counterparty: "Cafe"})

	counterparty := "Bakery"
	category, err := service.UpdateCategory(context.Background(), ownerID, 1, UpdateCategoryInput{Counterparty: &counterparty})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Counterparty != "Bakery" {
		t.Errorf("Expected counterparty 'Bakery', got '%s'", category.Counterparty)
	}
	if category.Type != domain.CategoryTypeMinijob {
		t.Errorf("Expected type to stay Minijob, got %s", category.Type)
	}
}

func TestUpdateCategory_NotOwned(t *testing.T) {
	service, repos := newTestCategoryService()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: strangerID, Type: domain.CategoryTypeMinijob, Counterparty: "Cafe"})

	counterparty := "Mine now"
	_, err := service.UpdateCategory(context.Background(), ownerID, 1, UpdateCategoryInput{Counterparty: &counterparty})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
	if repos.Categories.Categories[1].Counterparty != "Cafe" {
		t.Error("Expected foreign category to be unchanged")
	}
}

func TestDeleteCategory_WithMovements(t *testing.T) {
	service, repos := newTestCategoryService()
	movementService := NewMovementService(repos.Movements, repos.ActivityLogs, newTestGuard(repos))
	ctx := context.Background()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: ownerID, Type: domain.CategoryTypeExpenses, Counterparty: "Rent"})
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 5, 1), Value: dec("-500")})

	err := service.DeleteCategory(ctx, ownerID, 1)
	if !errors.Is(err, domain.ErrCategoryHasMovements) {
		t.Fatalf("Expected ErrCategoryHasMovements, got %v", err)
	}

	if err := movementService.DeleteMovement(ctx, ownerID, 1); err != nil {
		t.Fatalf("Expected no error deleting movement, got %v", err)
	}

	movements, err := service.GetCategoryMovements(ctx, ownerID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(movements) != 0 {
		t.Errorf("Expected no movements left, got %d", len(movements))
	}

	if err := service.DeleteCategory(ctx, ownerID, 1); err != nil {
		t.Errorf("Expected delete to succeed once empty, got %v", err)
	}
}

func TestGetCategoryMovements_NewestFirst(t *testing.T) {
	service, repos := newTestCategoryService()
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: ownerID, Type: domain.CategoryTypeMinijob, Counterparty: "Cafe"})
	repos.Categories.AddCategory(&domain.Category{ID: 2, UserID: ownerID, Type: domain.CategoryTypeMinijob, Counterparty: "Bar"})
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 1, 1), Value: dec("10")})
	repos.Movements.AddMovement(&domain.Movement{ID: 2, UserID: ownerID, CategoryID: 1, MovementDate: date(2024, 3, 1), Value: dec("20")})
	repos.Movements.AddMovement(&domain.Movement{ID: 3, UserID: ownerID, CategoryID: 2, MovementDate: date(2024, 2, 1), Value: dec("30")})

	movements, err := service.GetCategoryMovements(context.Background(), ownerID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(movements) != 2 || movements[0].ID != 2 || movements[1].ID != 1 {
		t.Errorf("Expected movements [2 1], got %v", movements)
	}
}
