package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs access tokens for a subject
type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
}

// TokenTypeBearer is the only token type issued
const TokenTypeBearer = "bearer"

// AuthService handles login and bearer-token user resolution
type AuthService struct {
	userRepo domain.UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, hasher PasswordHasher, issuer TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
	}
}

// TokenResult is an issued access token
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Login checks email and password and issues a token whose subject is the email.
// Unknown email and wrong password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	log.Info().Int32("user_id", user.ID).Msg("Access token issued")

	return &TokenResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

// ResolveUser returns the user a verified token subject names.
// An unknown subject is reported as domain.ErrUnauthorized, like an invalid token.
func (s *AuthService) ResolveUser(ctx context.Context, subject string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
