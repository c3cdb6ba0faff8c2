package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const validID = "7f1c7a0e-3a53-4b1e-9a55-2f4a1d0c9e11"

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts\s*\(email, password_hash, role\).*RETURNING id, created_at, updated_at$`).
		WithArgs("a@b.c", "hash", models.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(validID, ts, ts))

	got, err := repo.Create(context.Background(), &models.Account{Email: "a@b.c", PasswordHash: "hash", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != validID || !got.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Account{Email: "a@b.c", Role: models.RoleUser})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	boom := errors.New("boom")
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts`).WillReturnError(boom)

	_, err := repo.Create(context.Background(), &models.Account{Email: "a@b.c", Role: models.RoleUser})
	if !errors.Is(err, boom) || errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want wrapped boom, got %v", err)
	}
}

func TestGetByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	cols := []string{"id", "email", "password_hash", "role", "created_at", "updated_at"}

	mock.ExpectQuery(`(?s)^SELECT id, email, password_hash, role, created_at, updated_at FROM accounts\s+WHERE email = \$1$`).
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(validID, "a@b.c", "hash", "admin", ts, ts))

	got, err := repo.GetByEmail(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Role != models.RoleAdmin || got.PasswordHash != "hash" {
		t.Fatalf("unexpected account: %+v", got)
	}

	mock.ExpectQuery(`FROM accounts`).WithArgs("x@y.z").WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByEmail(context.Background(), "x@y.z"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByID_InvalidIDSkipsQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	if _, err := repo.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query: %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE accounts SET role = \$1, updated_at = now\(\)\s+WHERE id = \$2$`).
		WithArgs(models.RoleAdmin, validID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdateRole(context.Background(), validID, models.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(`UPDATE accounts`).
		WithArgs(models.RoleAdmin, validID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.UpdateRole(context.Background(), validID, models.RoleAdmin); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	mock.ExpectExec(`UPDATE accounts`).
		WithArgs(models.RoleUser, validID).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("ra")))
	if err := repo.UpdateRole(context.Background(), validID, models.RoleUser); err == nil {
		t.Fatalf("expected rows affected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
