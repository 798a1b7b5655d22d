package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"sollog/internal/common"
	"sollog/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@example.com", "$argon2id$hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u1", time.Now()))

	u, err := repo.Create(context.Background(), &models.User{Email: "a@example.com", PasswordHash: "$argon2id$hash"})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@example.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, common.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestUpdateProfile_MissingUser(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), &models.User{ID: "ghost"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
