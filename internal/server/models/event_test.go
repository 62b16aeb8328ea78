package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hebsync/hebsync/internal/hebcal"
)

func TestEffectiveWatermark(t *testing.T) {
	ev := &RecurringEvent{HebrewYear: 5780}
	assert.Equal(t, 5780, ev.EffectiveWatermark(), "unset watermark reads as origin year")

	w := 5786
	ev.LastSyncedHebrewYear = &w
	assert.Equal(t, 5786, ev.EffectiveWatermark())
}

func TestOrigin(t *testing.T) {
	ev := &RecurringEvent{HebrewYear: 5784, HebrewMonth: hebcal.AdarII, HebrewDay: 14}
	assert.Equal(t, hebcal.HDate{Year: 5784, Month: hebcal.AdarII, Day: 14}, ev.Origin())
}

func TestSyncWindowYears(t *testing.T) {
	assert.Equal(t, []int{5785, 5786, 5787}, SyncWindow{Start: 5785, End: 5787}.Years())
	assert.Equal(t, []int{5790}, SyncWindow{Start: 5790, End: 5790}.Years())
	assert.Nil(t, SyncWindow{Start: 5791, End: 5790}.Years())
}
