// Package users provides the PostgreSQL-backed repository for user accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sollog/internal/common"
	"sollog/internal/dbx"
	"sollog/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account and returns it with the generated id.
// A duplicate email yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const userColumns = `id, email, password_hash, username, date_of_birth, location, profile_complete, created_at`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var dob sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Username, &dob, &u.Location, &u.ProfileComplete, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if dob.Valid {
		u.DateOfBirth = &dob.Time
	}
	return &u, nil
}

// GetByEmail returns the account with the given email, or common.ErrNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the account with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile stores the mutable profile fields for user.ID.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, date_of_birth = $3, location = $4, profile_complete = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.DateOfBirth, user.Location, user.ProfileComplete)
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
