package dbx

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"eof", io.EOF, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"net timeout", &net.OpError{Op: "dial", Err: os.ErrDeadlineExceeded}, true},
		{"dns failure", &net.DNSError{Err: "no such host", IsNotFound: true}, true},
		{"connection exception", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"no rows", sql.ErrNoRows, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}

func TestIsTransient_Wrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: "08001"}
	err := fmt.Errorf("create occurrence: %w", inner)
	assert.True(t, IsTransient(err))

	perm := fmt.Errorf("create occurrence: %w", &pgconn.PgError{Code: "23505"})
	assert.False(t, IsTransient(perm))
}

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return true }

func TestIsTransient_NetErrorInterface(t *testing.T) {
	var _ net.Error = &fakeNetError{}
	assert.True(t, IsTransient(&fakeNetError{timeout: true}))

	deadline := fmt.Errorf("query: %w", &net.OpError{
		Op:  "read",
		Net: "tcp",
		Err: &timeoutError{},
	})
	assert.True(t, IsTransient(deadline))
}

type timeoutError struct{}

func (*timeoutError) Error() string { return "i/o timeout" }
func (*timeoutError) Timeout() bool { return true }
