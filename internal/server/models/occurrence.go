package models

import "time"

// EventOccurrence is one materialized projection of a recurring event: a
// concrete Gregorian day that has been written to the external calendar.
// Records are created only after the external insert is confirmed, so the
// external ID is always present.
type EventOccurrence struct {
	ID      string
	EventID string
	// Date is the Gregorian day of the occurrence, midnight UTC.
	Date time.Time
	// ExternalEventID is the id assigned by the external calendar.
	ExternalEventID string
	CreatedAt       time.Time
}
