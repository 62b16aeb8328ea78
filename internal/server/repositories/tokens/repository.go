// Package tokens provides PostgreSQL-backed persistence for stored OAuth
// credentials (refresh tokens sealed, access tokens in the clear).
package tokens

import (
	"context"

	"github.com/hebsync/hebsync/internal/server/models"
)

type Repository interface {
	// Upsert stores or replaces the credential for the record's user.
	Upsert(ctx context.Context, rec *models.TokenRecord) error
	GetByUserID(ctx context.Context, userID string) (*models.TokenRecord, error)
}
