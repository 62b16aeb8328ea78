package services

import (
	"github.com/hebsync/hebsync/internal/server/models"
)

// horizonYears is how far forward the initial window reaches.
const horizonYears = 10

// InitialWindow computes the bulk range materialized once, at event
// creation. Distant-past origins get a rolling window around the current
// year instead of a full back-fill; future origins start at themselves.
func InitialWindow(originYear, currentYear int) models.SyncWindow {
	switch {
	case originYear < currentYear-horizonYears:
		return models.SyncWindow{Start: currentYear - horizonYears, End: currentYear + horizonYears}
	case originYear <= currentYear:
		return models.SyncWindow{Start: originYear, End: currentYear + horizonYears}
	default:
		return models.SyncWindow{Start: originYear, End: originYear + horizonYears}
	}
}

// Progression reports which Hebrew years of one event still need syncing:
// watermark+1 through the current year. Because the initial window already
// reaches a decade forward, this is normally empty for years after creation.
func Progression(event *models.RecurringEvent, currentYear int) models.YearProgressionStatus {
	watermark := event.EffectiveWatermark()
	status := models.YearProgressionStatus{
		EventID:        event.ID,
		OriginYear:     event.HebrewYear,
		LastSyncedYear: watermark,
		CurrentYear:    currentYear,
	}
	status.YearsNeedingSync = models.SyncWindow{Start: watermark + 1, End: currentYear}.Years()
	status.NeedsUpdate = len(status.YearsNeedingSync) > 0
	return status
}
