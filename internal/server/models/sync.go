package models

import "time"

// SyncWindow is an inclusive range of Hebrew years to materialize.
type SyncWindow struct {
	Start int
	End   int
}

// Years expands the window into its member years, ascending.
func (w SyncWindow) Years() []int {
	if w.End < w.Start {
		return nil
	}
	years := make([]int, 0, w.End-w.Start+1)
	for y := w.Start; y <= w.End; y++ {
		years = append(years, y)
	}
	return years
}

// YearProgressionStatus is the computed catch-up view for one event: which
// Hebrew years between the watermark and the current year still need an
// external occurrence.
type YearProgressionStatus struct {
	EventID        string
	OriginYear     int
	LastSyncedYear int
	CurrentYear    int
	// YearsNeedingSync lists watermark+1 .. current year, ascending.
	YearsNeedingSync []int
	NeedsUpdate      bool
}

// CalendarEntry is the payload handed to the external calendar client for
// one occurrence.
type CalendarEntry struct {
	Summary     string
	Description string
	// Date is the all-day slot, midnight UTC.
	Date time.Time
	// Tag is the provenance marker carried as a private extended
	// property, set to the owning event's id. Together with Date it
	// identifies the occurrence remotely.
	Tag string
}

// CalendarInfo is one entry of an external calendar listing.
type CalendarInfo struct {
	ID      string
	Summary string
}

// YearError records one Hebrew year an orchestration run could not sync.
type YearError struct {
	Year int
	Err  error
}

// SyncOutcome reports one orchestration run over a single event.
type SyncOutcome struct {
	EventID     string
	SyncedYears []int
	YearErrors  []YearError
	// Watermark is the value the event's watermark was advanced to, nil
	// when no year succeeded.
	Watermark *int
}
