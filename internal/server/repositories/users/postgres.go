package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/dbx"
	"github.com/hebsync/hebsync/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, calendar_id, sync_enabled)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.CalendarID, user.SyncEnabled,
	).Scan(&user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, calendar_id, sync_enabled, created_at
		FROM users
		WHERE id = $1
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.CalendarID, &user.SyncEnabled, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// ListEligible joins on stored credentials so users without a token row
// never enter a sweep.
func (r *PostgresRepository) ListEligible(ctx context.Context) ([]*models.UserSyncContext, error) {
	query := `
		SELECT u.id, u.calendar_id
		FROM users u
		JOIN google_tokens t ON t.user_id = u.id
		WHERE u.sync_enabled AND u.calendar_id <> ''
		ORDER BY u.created_at, u.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select eligible users: %w", err)
	}
	defer rows.Close()

	var result []*models.UserSyncContext
	for rows.Next() {
		var item models.UserSyncContext
		if err := rows.Scan(&item.UserID, &item.CalendarID); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateCalendarID(ctx context.Context, userID, calendarID string) error {
	query := `
		UPDATE users
		SET calendar_id = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID, calendarID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) SetSyncEnabled(ctx context.Context, userID string, enabled bool) error {
	query := `
		UPDATE users
		SET sync_enabled = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID, enabled)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
