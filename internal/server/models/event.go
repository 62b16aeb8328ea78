// Package models defines server-side data models persisted in the database,
// plus the transient views passed between sync components.
package models

import (
	"time"

	"github.com/hebsync/hebsync/internal/hebcal"
)

// RecurrenceAnnualHebrew is the only recurrence class the engine expands:
// one occurrence per Hebrew year on the anniversary of the origin date.
const RecurrenceAnnualHebrew = "annual-hebrew"

// RecurringEvent is an event anchored to a Hebrew date. Occurrences are
// projected from the origin date, one per Hebrew year.
type RecurringEvent struct {
	ID          string
	UserID      string
	Title       string
	Description string

	// Origin Hebrew date components. Month follows hebcal numbering
	// (Nisan=1 ... Adar II=13).
	HebrewDay   int
	HebrewMonth int
	HebrewYear  int

	Recurrence string

	// LastSyncedHebrewYear is the progression watermark: the highest
	// Hebrew year whose occurrence reached the external calendar. Nil
	// means the event has never been synced. When set it is never below
	// the origin year. Only the sync orchestrator mutates it, after a
	// successful batch persist.
	LastSyncedHebrewYear *int

	CreatedAt time.Time
}

// Origin returns the event's anchor as a hebcal date.
func (e *RecurringEvent) Origin() hebcal.HDate {
	return hebcal.HDate{Year: e.HebrewYear, Month: e.HebrewMonth, Day: e.HebrewDay}
}

// EffectiveWatermark is the watermark with the never-synced case folded in:
// an unset watermark reads as the origin year.
func (e *RecurringEvent) EffectiveWatermark() int {
	if e.LastSyncedHebrewYear == nil {
		return e.HebrewYear
	}
	return *e.LastSyncedHebrewYear
}
