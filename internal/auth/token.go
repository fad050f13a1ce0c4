package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, tampered, expired and subject-less tokens
var ErrInvalidToken = errors.New("invalid token")

// DefaultTokenTTL is used when no TTL is configured
const DefaultTokenTTL = 30 * time.Minute

// TokenConfig holds the shared signing parameters
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims are the verified claims of a bearer token
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenIssuer signs HS256 access tokens
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs a token for subject and returns it with its expiry
func (i *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    i.issuer,
		Audience:  jwt.ClaimStrings{i.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// TokenVerifier validates tokens produced by TokenIssuer
type TokenVerifier struct {
	validator *validator.Validator
}

// NewTokenVerifier creates a TokenVerifier checking signature, expiry, issuer and audience
func NewTokenVerifier(cfg TokenConfig, allowedClockSkew time.Duration) (*TokenVerifier, error) {
	secret := []byte(cfg.Secret)
	keyFunc := func(context.Context) (interface{}, error) {
		return secret, nil
	}

	v, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithAllowedClockSkew(allowedClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token validator: %w", err)
	}

	return &TokenVerifier{validator: v}, nil
}

// Verify validates token and returns its claims
func (v *TokenVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	raw, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	validated, ok := raw.(*validator.ValidatedClaims)
	if !ok || validated.RegisteredClaims.Subject == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{Subject: validated.RegisteredClaims.Subject}
	if validated.RegisteredClaims.Expiry > 0 {
		claims.ExpiresAt = time.Unix(validated.RegisteredClaims.Expiry, 0)
	}
	return claims, nil
}
