package service

import (
	"context"
	"strings"
	"testing"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService() (*UserService, *testutil.MockRepositories) {
	repos := testutil.NewMockRepositories()
	return NewUserService(repos.Users, testutil.MockPasswordHasher{}), repos
}

func TestRegister_HashesPassword(t *testing.T) {
	service, repos := newTestUserService()

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "  alice ",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	stored := repos.Users.Users[user.ID]
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, testutil.MockPasswordHasher{}.Verify("s3cret", stored.PasswordHash))
}

func TestRegister_Duplicate(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Name: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = service.Register(ctx, RegisterInput{Name: "alice", Email: "other@example.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, err = service.Register(ctx, RegisterInput{Name: "bob", Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	service, _ := newTestUserService()

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"blank name", RegisterInput{Name: " ", Email: "a@example.com", Password: "pw"}, domain.ErrNameRequired},
		{"long name", RegisterInput{Name: strings.Repeat("n", 256), Email: "a@example.com", Password: "pw"}, domain.ErrNameTooLong},
		{"blank email", RegisterInput{Name: "a", Email: "", Password: "pw"}, domain.ErrEmailRequired},
		{"malformed email", RegisterInput{Name: "a", Email: "not-an-email", Password: "pw"}, domain.ErrInvalidEmail},
		{"display name email", RegisterInput{Name: "a", Email: "Alice <a@example.com>", Password: "pw"}, domain.ErrInvalidEmail},
		{"blank password", RegisterInput{Name: "a", Email: "a@example.com", Password: "  "}, domain.ErrPasswordRequired},
		{"long password", RegisterInput{Name: "a", Email: "a@example.com", Password: strings.Repeat("p", 73)}, domain.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateDetails(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()
	alice, err := service.Register(ctx, RegisterInput{Name: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = service.Register(ctx, RegisterInput{Name: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	t.Run("no fields returns current profile", func(t *testing.T) {
		user, err := service.UpdateDetails(ctx, alice.ID, UpdateDetailsInput{})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Name)
	})

	t.Run("changes only the given field", func(t *testing.T) {
		name := "alicia"
		user, err := service.UpdateDetails(ctx, alice.ID, UpdateDetailsInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "alicia", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("taken email", func(t *testing.T) {
		email := "bob@example.com"
		_, err := service.UpdateDetails(ctx, alice.ID, UpdateDetailsInput{Email: &email})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("malformed email", func(t *testing.T) {
		email := "nope"
		_, err := service.UpdateDetails(ctx, alice.ID, UpdateDetailsInput{Email: &email})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})
}

func TestChangePassword(t *testing.T) {
	service, repos := newTestUserService()
	ctx := context.Background()
	user, err := service.Register(ctx, RegisterInput{Name: "alice", Email: "alice@example.com", Password: "old"})
	require.NoError(t, err)

	err = service.ChangePassword(ctx, user, ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "new", ConfirmNewPassword: "new"})
	assert.ErrorIs(t, err, domain.ErrIncorrectPassword)

	err = service.ChangePassword(ctx, user, ChangePasswordInput{CurrentPassword: "old", NewPassword: "new", ConfirmNewPassword: "other"})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	err = service.ChangePassword(ctx, user, ChangePasswordInput{CurrentPassword: "old", NewPassword: "new", ConfirmNewPassword: "new"})
	require.NoError(t, err)

	stored := repos.Users.Users[user.ID]
	hasher := testutil.MockPasswordHasher{}
	assert.True(t, hasher.Verify("new", stored.PasswordHash))
	assert.False(t, hasher.Verify("old", stored.PasswordHash))
}

func TestDeleteAccount_CascadesAndRunsHooksAfterCommit(t *testing.T) {
	service, repos := newTestUserService()
	txManager := testutil.NewMockTxManager()
	var deleted []int32
	service.OnDelete(func(userID int32) { deleted = append(deleted, userID) })

	user, err := service.Register(context.Background(), RegisterInput{Name: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	repos.Categories.AddCategory(&domain.Category{ID: 1, UserID: user.ID, Type: domain.CategoryTypeExpenses, Counterparty: "Rent"})
	repos.Movements.AddMovement(&domain.Movement{ID: 1, UserID: user.ID, CategoryID: 1})
	repos.PlannedExpenses.PlannedExpenses[1] = &domain.PlannedExpense{ID: 1, UserID: user.ID}

	ctx, tx, err := txManager.Begin(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, service.DeleteAccount(ctx, user, "wrong"), domain.ErrIncorrectPassword)
	assert.ErrorIs(t, service.DeleteAccount(ctx, user, ""), domain.ErrIncorrectPassword)

	require.NoError(t, service.DeleteAccount(ctx, user, "pw"))
	assert.Empty(t, deleted)

	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, []int32{user.ID}, deleted)

	_, err = repos.Categories.GetByID(context.Background(), user.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repos.Movements.GetByID(context.Background(), user.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repos.PlannedExpenses.GetByID(context.Background(), user.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
