package occurrences

import (
	"context"
	"fmt"

	"github.com/hebsync/hebsync/internal/dbx"
	"github.com/hebsync/hebsync/internal/server/models"
)

// PostgresRepository implements occurrence storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, occ *models.EventOccurrence) (*models.EventOccurrence, error) {
	query := `
		INSERT INTO occurrences (id, event_id, gregorian_date, external_event_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		occ.ID, occ.EventID, occ.Date, occ.ExternalEventID,
	).Scan(&occ.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return occ, nil
}

func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.EventOccurrence, error) {
	query := `
		SELECT id, event_id, gregorian_date, external_event_id, created_at
		FROM occurrences
		WHERE event_id = $1
		ORDER BY gregorian_date
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to select occurrences: %w", err)
	}
	defer rows.Close()

	var result []*models.EventOccurrence
	for rows.Next() {
		var item models.EventOccurrence
		if err := rows.Scan(
			&item.ID, &item.EventID, &item.Date, &item.ExternalEventID, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
