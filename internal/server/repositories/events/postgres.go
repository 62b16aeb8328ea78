package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/dbx"
	"github.com/hebsync/hebsync/internal/server/models"
)

// PostgresRepository implements event storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, event *models.RecurringEvent) (*models.RecurringEvent, error) {
	query := `
		INSERT INTO events (id, user_id, title, description, hebrew_day, hebrew_month, hebrew_year, recurrence, last_synced_hebrew_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.UserID, event.Title, event.Description,
		event.HebrewDay, event.HebrewMonth, event.HebrewYear,
		event.Recurrence, event.LastSyncedHebrewYear,
	).Scan(&event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return event, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.RecurringEvent, error) {
	query := `
		SELECT id, user_id, title, description, hebrew_day, hebrew_month, hebrew_year, recurrence, last_synced_hebrew_year, created_at
		FROM events
		WHERE id = $1
	`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return event, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.RecurringEvent, error) {
	query := `
		SELECT id, user_id, title, description, hebrew_day, hebrew_month, hebrew_year, recurrence, last_synced_hebrew_year, created_at
		FROM events
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []*models.RecurringEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateWatermark performs the compare-and-swap advance. IS NOT DISTINCT
// FROM makes the nil (never synced) expectation usable in the predicate.
func (r *PostgresRepository) UpdateWatermark(ctx context.Context, eventID string, expected *int, next int) error {
	query := `
		UPDATE events
		SET last_synced_hebrew_year = $2
		WHERE id = $1 AND last_synced_hebrew_year IS NOT DISTINCT FROM $3
	`
	res, err := r.db.ExecContext(ctx, query, eventID, next, expected)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrWatermarkConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.RecurringEvent, error) {
	var event models.RecurringEvent
	var watermark sql.NullInt64
	if err := row.Scan(
		&event.ID, &event.UserID, &event.Title, &event.Description,
		&event.HebrewDay, &event.HebrewMonth, &event.HebrewYear,
		&event.Recurrence, &watermark, &event.CreatedAt,
	); err != nil {
		return nil, err
	}
	if watermark.Valid {
		w := int(watermark.Int64)
		event.LastSyncedHebrewYear = &w
	}
	return &event, nil
}
