package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/dbx"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (filename, original_name, file_type, file_size, content,
		   chunk_count, external_index_ref, archive_key, uploaded_by, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		doc.Filename, doc.OriginalName, doc.FileType, doc.FileSize, doc.Content,
		doc.ChunkCount, doc.ExternalIndexRef, doc.ArchiveKey, doc.UploadedBy, doc.UploadedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Document, error) {
	query :=
		`SELECT id, filename, original_name, file_type, file_size, chunk_count,
		   external_index_ref, archive_key, uploaded_by, uploaded_at, created_at, updated_at
		 FROM documents
		 ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Document, 0)
	for rows.Next() {
		d := &models.Document{}
		if err := rows.Scan(&d.ID, &d.Filename, &d.OriginalName, &d.FileType, &d.FileSize, &d.ChunkCount,
			&d.ExternalIndexRef, &d.ArchiveKey, &d.UploadedBy, &d.UploadedAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}

	query :=
		`SELECT id, filename, original_name, file_type, file_size, content, chunk_count,
		   external_index_ref, archive_key, uploaded_by, uploaded_at, created_at, updated_at
		 FROM documents
		 WHERE id = $1`

	d := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Filename, &d.OriginalName, &d.FileType,
		&d.FileSize, &d.Content, &d.ChunkCount, &d.ExternalIndexRef, &d.ArchiveKey, &d.UploadedBy,
		&d.UploadedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
