// Package accounts is the credential store: one record per account, keyed
// by id and by lowercased email.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/supportdesk/internal/server/models"
)

// Repository persists accounts. Lookups of unknown accounts return
// common.ErrNotFound; Create returns common.ErrAlreadyExists when the email
// is taken.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
}
