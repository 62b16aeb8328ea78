// Package occurrences provides PostgreSQL-backed persistence for the
// materialized-occurrence ledger.
package occurrences

import (
	"context"

	"github.com/hebsync/hebsync/internal/server/models"
)

type Repository interface {
	// Create records one confirmed external insert. Batch persistence is
	// achieved by binding the repository to a transaction (dbx.WithTx).
	Create(ctx context.Context, occ *models.EventOccurrence) (*models.EventOccurrence, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.EventOccurrence, error)
}
