// Package users provides PostgreSQL-backed persistence for subscribers.
package users

import (
	"context"

	"github.com/hebsync/hebsync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// ListEligible returns the sync contexts the scheduler sweeps: users
	// with sync enabled, a resolved calendar and a stored credential.
	ListEligible(ctx context.Context) ([]*models.UserSyncContext, error)

	// UpdateCalendarID persists the calendar the resolver found or created.
	UpdateCalendarID(ctx context.Context, userID, calendarID string) error

	// SetSyncEnabled flips the user's participation in sweeps.
	SetSyncEnabled(ctx context.Context, userID string, enabled bool) error
}
