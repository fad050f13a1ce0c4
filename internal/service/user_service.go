package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/marginalwallet/wallet-api/internal/auth"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// UserService handles registration and account self-service
type UserService struct {
	userRepo domain.UserRepository
	hasher   PasswordHasher
	onDelete []func(userID int32)
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher}
}

// OnDelete registers fn to run after a user deletion commits
func (s *UserService) OnDelete(fn func(userID int32)) {
	s.onDelete = append(s.onDelete, fn)
}

// RegisterInput holds the input for creating a user
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateDetailsInput holds a partial profile update; nil fields are left unchanged
type UpdateDetailsInput struct {
	Name  *string
	Email *string
}

// ChangePasswordInput holds the input for a password change
type ChangePasswordInput struct {
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || len(email) > domain.MaxNameLength {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return domain.ErrPasswordRequired
	}
	if len(password) > auth.MaxPasswordBytes {
		return domain.ErrPasswordTooLong
	}
	return nil
}

// Register creates a user with a hashed password.
// A taken name or email returns domain.ErrUserAlreadyExists.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
}

// GetProfile retrieves a user by ID
func (s *UserService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateDetails changes name and/or email.
// Changing the email invalidates outstanding tokens, whose subject is the old email.
func (s *UserService) UpdateDetails(ctx context.Context, userID int32, input UpdateDetailsInput) (*domain.User, error) {
	var name, email *string
	if input.Name != nil {
		n, err := normalizeName(*input.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}
	if input.Email != nil {
		e, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		email = &e
	}

	if name == nil && email == nil {
		return s.userRepo.GetByID(ctx, userID)
	}
	return s.userRepo.UpdateDetails(ctx, userID, name, email)
}

// ChangePassword replaces the password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, user *domain.User, input ChangePasswordInput) error {
	if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
		return domain.ErrIncorrectPassword
	}
	if input.NewPassword != input.ConfirmNewPassword {
		return domain.ErrPasswordMismatch
	}
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	log.Info().Int32("user_id", user.ID).Msg("Password changed")
	return nil
}

// DeleteAccount removes the user and everything they own after checking the password
func (s *UserService) DeleteAccount(ctx context.Context, user *domain.User, password string) error {
	if password == "" || !s.hasher.Verify(password, user.PasswordHash) {
		return domain.ErrIncorrectPassword
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	for _, fn := range s.onDelete {
		domain.AfterCommit(ctx, func() { fn(user.ID) })
	}
	return nil
}
