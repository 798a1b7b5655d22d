// Package videos provides the PostgreSQL-backed repository for encrypted
// video records.
package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sollog/internal/common"
	"sollog/internal/dbx"
	"sollog/internal/server/models"
)

// PostgresRepository implements video storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a record and returns it with the generated id and creation
// timestamp. storage_key, iv and jwk are written here and only here; no
// other statement in this package touches them.
func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	query := `
		INSERT INTO videos (user_id, title, storage_key, iv, jwk, sequence_number, sol_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		video.UserID, video.Title, video.StorageKey, video.IV, video.JWK,
		video.SequenceNumber, video.SolDay).
		Scan(&video.ID, &video.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return video, nil
}

const videoColumns = `id, user_id, title, storage_key, iv, jwk, sequence_number, sol_day, created_at`

// ListByOwner returns all records owned by userID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select videos: %w", err)
	}
	defer rows.Close()

	var result []*models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.UserID, &v.Title, &v.StorageKey, &v.IV, &v.JWK,
			&v.SequenceNumber, &v.SolDay, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the record with the given id if userID owns it. Absent and
// not-owned are both common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1 AND user_id = $2`

	var v models.Video
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&v.ID, &v.UserID, &v.Title, &v.StorageKey, &v.IV, &v.JWK,
			&v.SequenceNumber, &v.SolDay, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &v, nil
}

// UpdateTitle renames the record if userID owns it.
func (r *PostgresRepository) UpdateTitle(ctx context.Context, userID, id, title string) error {
	query := `UPDATE videos SET title = $3 WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID, title)
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

// Delete removes the record if userID owns it.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM videos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
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

// MaxSequenceNumber returns the highest sequence number among userID's
// records, 0 when there are none. The read-then-increment done by the upload
// flow is advisory display ordering only; two concurrent uploads by the same
// owner can observe the same maximum.
func (r *PostgresRepository) MaxSequenceNumber(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COALESCE(MAX(sequence_number), 0) FROM videos WHERE user_id = $1`

	var max int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&max); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return max, nil
}
