package repomanager

import (
	"context"
	"database/sql"

	"github.com/hebsync/hebsync/internal/dbx"
	"github.com/hebsync/hebsync/internal/server/repositories/events"
	"github.com/hebsync/hebsync/internal/server/repositories/occurrences"
	"github.com/hebsync/hebsync/internal/server/repositories/tokens"
	"github.com/hebsync/hebsync/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Events(db dbx.DBTX) events.Repository
	Occurrences(db dbx.DBTX) occurrences.Repository
	Tokens(db dbx.DBTX) tokens.Repository
}
