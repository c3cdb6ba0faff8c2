// Package auth issues and verifies bearer tokens and hashes passwords.
//
// Verification is stateless: the role inside a token is trusted until the
// token expires, so a role change reaches an account only once its existing
// tokens run out. Keep the lifetime short where that matters.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// DevSecret signs tokens when no secret is configured outside production.
const DevSecret = "dev-secret-change-in-production"

// DefaultLifetime applies when TokenConfig.Lifetime is zero.
const DefaultLifetime = 7 * 24 * time.Hour

// Claims are the JWT claims of a supportdesk bearer token. The account id
// travels in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret     string
	Lifetime   time.Duration
	Production bool
}

// TokenService signs tokens with HS256 using a process-wide secret.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithClock replaces the time source used for issued-at, expiry and
// verification.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService validates cfg and builds a TokenService. An empty secret
// is an error in production; elsewhere DevSecret is used and a warning is
// logged.
func NewTokenService(cfg TokenConfig, logger logging.Logger, opts ...Option) (*TokenService, error) {
	secret := cfg.Secret
	if secret == "" {
		if cfg.Production {
			return nil, errors.New("token service: signing secret is required in production")
		}
		logger.Warn(context.Background(), "JWT secret is not set, using the insecure development secret")
		secret = DevSecret
	}

	lifetime := cfg.Lifetime
	if lifetime == 0 {
		lifetime = DefaultLifetime
	}
	if lifetime < 0 {
		return nil, fmt.Errorf("token service: negative lifetime %s", lifetime)
	}

	s := &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Issue returns a signed token for id, valid from now for the configured
// lifetime.
func (s *TokenService) Issue(id models.Identity) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
		Email: id.Email,
		Role:  id.Role,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrInternal, err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// identity it carries. Failures are common.ErrTokenInvalidSignature,
// common.ErrTokenExpired or common.ErrTokenMalformed.
func (s *TokenService) Verify(tokenString string) (*models.Identity, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if claims.Subject == "" || claims.Email == "" || !claims.Role.Valid() || claims.IssuedAt == nil {
		return nil, common.ErrTokenMalformed
	}

	return &models.Identity{
		AccountID: claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrTokenInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrTokenMalformed
	}
}
