// Package events provides PostgreSQL-backed persistence for recurring
// events and their progression watermarks.
package events

import (
	"context"

	"github.com/hebsync/hebsync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, event *models.RecurringEvent) (*models.RecurringEvent, error)
	GetByID(ctx context.Context, id string) (*models.RecurringEvent, error)
	ListByUser(ctx context.Context, userID string) ([]*models.RecurringEvent, error)

	// UpdateWatermark advances the progression watermark with
	// compare-and-swap semantics: the write applies only while the stored
	// value still equals expected (nil meaning never synced). A lost race
	// surfaces common.ErrWatermarkConflict.
	UpdateWatermark(ctx context.Context, eventID string, expected *int, next int) error
}
