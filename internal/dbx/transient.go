package dbx

import (
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error classes considered infrastructure trouble rather than a
// statement-level failure.
const (
	pgClassConnectionException   = "08"
	pgClassInsufficientResources = "53"
	pgClassOperatorIntervention  = "57"
)

// Retryable single codes outside the classes above.
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
)

// IsTransient reports whether err looks like a temporary infrastructure
// failure worth retrying: a lost or refused connection, server shutdown,
// resource exhaustion, or a serialization/deadlock abort. Statement-level
// failures, constraint violations in particular, are permanent and report
// false.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 {
			switch pgErr.Code[:2] {
			case pgClassConnectionException,
				pgClassInsufficientResources,
				pgClassOperatorIntervention:
				return true
			}
		}
		return pgErr.Code == pgCodeSerializationFailure ||
			pgErr.Code == pgCodeDeadlockDetected
	}

	// Errors pgx guarantees happened before the statement reached the
	// server are always safe to retry.
	return pgconn.SafeToRetry(err)
}
