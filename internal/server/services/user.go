package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hebsync/hebsync/internal/logging"
	"github.com/hebsync/hebsync/internal/server/models"
	"github.com/hebsync/hebsync/internal/server/repositories/repomanager"
)

// UserService manages subscriber accounts and their sync switch.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, log logging.Logger) *UserService {
	return &UserService{db: db, repomanager: rm, log: log}
}

// CreateUser registers a new subscriber with sync enabled. The calendar id
// stays empty until the resolver first finds or creates the target calendar.
func (s *UserService) CreateUser(ctx context.Context) (*models.User, error) {
	user := &models.User{ID: uuid.NewString(), SyncEnabled: true}
	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info(ctx, "user created", "user_id", created.ID)
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// SetSyncEnabled flips the user's participation in scheduled sweeps.
func (s *UserService) SetSyncEnabled(ctx context.Context, userID string, enabled bool) error {
	if err := s.repomanager.Users(s.db).SetSyncEnabled(ctx, userID, enabled); err != nil {
		return fmt.Errorf("set sync enabled: %w", err)
	}
	s.log.Info(ctx, "sync flag updated", "user_id", userID, "enabled", enabled)
	return nil
}
