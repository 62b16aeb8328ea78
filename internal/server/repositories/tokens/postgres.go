package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hebsync/hebsync/internal/common"
	"github.com/hebsync/hebsync/internal/dbx"
	"github.com/hebsync/hebsync/internal/server/models"
)

// PostgresRepository implements credential storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.TokenRecord) error {
	query := `
		INSERT INTO google_tokens (user_id, access_token, access_token_expiry, refresh_ciphertext, refresh_nonce, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			access_token_expiry = EXCLUDED.access_token_expiry,
			refresh_ciphertext = EXCLUDED.refresh_ciphertext,
			refresh_nonce = EXCLUDED.refresh_nonce,
			updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.UserID, rec.AccessToken, rec.AccessTokenExpiry,
		rec.RefreshCiphertext, rec.RefreshNonce,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.TokenRecord, error) {
	query := `
		SELECT user_id, access_token, access_token_expiry, refresh_ciphertext, refresh_nonce, updated_at
		FROM google_tokens
		WHERE user_id = $1
	`
	rec := &models.TokenRecord{}
	var expiry sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&rec.UserID, &rec.AccessToken, &expiry,
		&rec.RefreshCiphertext, &rec.RefreshNonce, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if expiry.Valid {
		t := expiry.Time
		rec.AccessTokenExpiry = &t
	}

	return rec, nil
}
