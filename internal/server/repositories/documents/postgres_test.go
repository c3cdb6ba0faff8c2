package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validID = "0b8f9a8e-52a4-4a8a-8b0f-6f0f2b8d1c33"

var listCols = []string{"id", "filename", "original_name", "file_type", "file_size", "chunk_count",
	"external_index_ref", "archive_key", "uploaded_by", "uploaded_at", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	up := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	doc := &models.Document{
		Filename:     "1700000000-faq.txt",
		OriginalName: "faq.txt",
		FileType:     models.FileTypeText,
		FileSize:     42,
		Content:      "hello world",
		UploadedBy:   "admin-1",
		UploadedAt:   up,
	}

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+documents.*RETURNING id, created_at, updated_at$`).
		WithArgs("1700000000-faq.txt", "faq.txt", models.FileTypeText, int64(42), "hello world",
			0, "", "", "admin-1", up).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(validID, up, up))

	got, err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, validID, got.ID)
	assert.Equal(t, 0, got.ChunkCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	boom := errors.New("conn reset")
	mock.ExpectQuery(`INSERT\s+INTO\s+documents`).WillReturnError(boom)

	_, err := repo.Create(context.Background(), &models.Document{})
	require.ErrorIs(t, err, boom)
}

func TestList_NewestFirstWithoutContent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	mock.ExpectQuery(`(?s)^SELECT id, filename,.*FROM documents\s+ORDER BY uploaded_at DESC$`).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow("id-2", "f2", "b.pdf", "pdf", int64(2), 0, "", "", "u", t2, t2, t2).
			AddRow("id-1", "f1", "a.txt", "txt", int64(1), 0, "", "", "u", t1, t1, t1))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "id-2", got[0].ID)
	assert.Equal(t, models.FileTypePDF, got[0].FileType)
	assert.Empty(t, got[0].Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM documents`).WillReturnRows(sqlmock.NewRows(listCols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.Now()
	mock.ExpectQuery(`FROM documents`).
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow("id-1", "f1", "a.txt", "txt", int64(1), 0, "", "", "u", t1, t1, t1).
			RowError(0, errors.New("row broke")))

	_, err := repo.List(context.Background())
	require.Error(t, err)
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "filename", "original_name", "file_type", "file_size", "content", "chunk_count",
		"external_index_ref", "archive_key", "uploaded_by", "uploaded_at", "created_at", "updated_at"}

	mock.ExpectQuery(`(?s)FROM documents\s+WHERE id = \$1$`).
		WithArgs(validID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(validID, "f", "a.txt", "txt", int64(5), "hello", 0, "", "documents/f.txt", "u", ts, ts, ts))

	got, err := repo.GetByID(context.Background(), validID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "documents/f.txt", got.ArchiveKey)

	mock.ExpectQuery(`FROM documents`).WithArgs(validID).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), validID)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM documents WHERE id = \$1$`).
		WithArgs(validID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), validID))

	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs(validID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), validID), common.ErrNotFound)

	boom := errors.New("boom")
	mock.ExpectExec(`DELETE FROM documents`).WithArgs(validID).WillReturnError(boom)
	err := repo.Delete(context.Background(), validID)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, common.ErrNotFound)

	require.ErrorIs(t, repo.Delete(context.Background(), "bad"), common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
