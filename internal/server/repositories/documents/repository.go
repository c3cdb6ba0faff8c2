// Package documents persists admitted documents.
package documents

import (
	"context"

	"github.com/dmitrijs2005/supportdesk/internal/server/models"
)

// Repository stores document records. List returns records newest first
// without Content. Unknown ids yield common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	List(ctx context.Context) ([]*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}
