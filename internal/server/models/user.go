package models

import "time"

// User is a subscriber whose events are swept by the scheduler.
type User struct {
	ID string
	// CalendarID is the resolved external calendar, empty until the
	// resolver first finds or creates it.
	CalendarID  string
	SyncEnabled bool
	CreatedAt   time.Time
}

// UserSyncContext is the slice of user state the scheduler iterates over.
// Credentials stay behind the credential provider.
type UserSyncContext struct {
	UserID     string
	CalendarID string
}
