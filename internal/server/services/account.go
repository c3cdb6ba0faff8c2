// Package services contains server-side business logic. AccountService
// handles registration, login and role changes; DocumentService is the
// admin-only ingestion orchestrator in front of the admission pipeline.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/auth"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/accounts"
	"github.com/go-playground/validator/v10"
)

// TokenIssuer mints bearer tokens. *auth.TokenService implements it.
type TokenIssuer interface {
	Issue(id models.Identity) (string, error)
}

// AuthResult is what a successful register or login hands back.
type AuthResult struct {
	Account *models.Account
	Token   string
}

type AccountService struct {
	accounts accounts.Repository
	tokens   TokenIssuer
	logger   logging.Logger
}

func NewAccountService(repo accounts.Repository, tokens TokenIssuer, logger logging.Logger) *AccountService {
	return &AccountService{accounts: repo, tokens: tokens, logger: logger}
}

// Register creates a user account and signs the caller in. The role is
// always user; promotion happens only through SetRole.
func (s *AccountService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	a, err := s.create(ctx, email, password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.signIn(a)
}

// CreateAdmin creates an account that starts with the admin role. It is
// reachable only from the operator CLI.
func (s *AccountService) CreateAdmin(ctx context.Context, email, password string) (*models.Account, error) {
	return s.create(ctx, email, password, models.RoleAdmin)
}

func (s *AccountService) create(ctx context.Context, email, password string, role models.Role) (*models.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.Create(ctx, &models.Account{Email: email, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email is already registered", common.ErrValidation)
		}
		return nil, s.storeFault(ctx, "create account", err)
	}

	s.logger.Info(ctx, "account created", "account_id", a.ID, "role", a.Role)
	return a, nil
}

// Login checks email and password. Every mismatch is reported the same way.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, s.storeFault(ctx, "find account", err)
	}

	hash := ""
	if a != nil {
		hash = a.PasswordHash
	}
	if !auth.CheckPassword(hash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthenticated)
	}

	return s.signIn(a)
}

// Me returns the stored account behind id.
func (s *AccountService) Me(ctx context.Context, id *models.Identity) (*models.Account, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: authentication required", common.ErrUnauthenticated)
	}

	a, err := s.accounts.GetByID(ctx, id.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: account not found", common.ErrNotFound)
		}
		return nil, s.storeFault(ctx, "get account", err)
	}
	return a, nil
}

// SetRole changes the role of the account registered under email and
// reports whether anything changed. Tokens already issued keep the role
// they were signed with until they expire.
func (s *AccountService) SetRole(ctx context.Context, email string, role models.Role) (bool, error) {
	if !role.Valid() {
		return false, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	a, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, fmt.Errorf("%w: no account for %s", common.ErrNotFound, email)
		}
		return false, s.storeFault(ctx, "find account", err)
	}
	if a.Role == role {
		return false, nil
	}

	if err := s.accounts.UpdateRole(ctx, a.ID, role); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, err
		}
		return false, s.storeFault(ctx, "update role", err)
	}

	s.logger.Info(ctx, "account role changed", "account_id", a.ID, "from", a.Role, "to", role)
	return true, nil
}

func (s *AccountService) signIn(a *models.Account) (*AuthResult, error) {
	if s.tokens == nil {
		return nil, fmt.Errorf("%w: no token issuer configured", common.ErrInternal)
	}
	token, err := s.tokens.Issue(a.Identity())
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrInternal, err)
	}
	return &AuthResult{Account: a, Token: token}, nil
}

func (s *AccountService) storeFault(ctx context.Context, op string, err error) error {
	return storeFault(ctx, s.logger, op, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var validate = validator.New()

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	return nil
}

// storeFault turns a repository failure into common.ErrUnavailable so that
// infrastructure faults never masquerade as domain errors. Cancellation is
// passed through unchanged.
func storeFault(ctx context.Context, logger logging.Logger, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Error(ctx, "storage failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s", common.ErrUnavailable, op)
}
