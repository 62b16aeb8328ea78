package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/hebsync/hebsync/internal/flagx"
	"github.com/hebsync/hebsync/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// All fields are pointers so that keys absent from the file leave the
// corresponding Config value untouched: the file is an overlay, not a full
// snapshot. After unmarshalling, present fields are copied into the runtime
// Config struct which uses plain types.
type JsonConfig struct {
	DatabaseDSN        *string         `json:"database_dsn"`
	CalendarName       *string         `json:"calendar_name"`
	GoogleClientID     *string         `json:"google_client_id"`
	GoogleClientSecret *string         `json:"google_client_secret"`
	TokenKey           *string         `json:"token_key"`
	SyncEnabled        *bool           `json:"sync_enabled"`
	SyncInterval       *timex.Duration `json:"sync_interval"`
	SyncBatchSize      *int            `json:"sync_batch_size"`
	SyncBatchPause     *timex.Duration `json:"sync_batch_pause"`
	ProjectorCacheSize *int            `json:"projector_cache_size"`

	ExternalRetryAttempts  *int            `json:"external_retry_attempts"`
	ExternalRetryBaseDelay *timex.Duration `json:"external_retry_base_delay"`
	ExternalRetryMaxDelay  *timex.Duration `json:"external_retry_max_delay"`

	StoreRetryAttempts  *int            `json:"store_retry_attempts"`
	StoreRetryBaseDelay *timex.Duration `json:"store_retry_base_delay"`
	StoreRetryMaxDelay  *timex.Duration `json:"store_retry_max_delay"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. Fields present in the file are copied into the target
// Config; absent fields keep their earlier values. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.CalendarName, c.CalendarName)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.TokenKey, c.TokenKey)
	setBool(&config.SyncEnabled, c.SyncEnabled)
	setDuration(&config.SyncInterval, c.SyncInterval)
	setInt(&config.SyncBatchSize, c.SyncBatchSize)
	setDuration(&config.SyncBatchPause, c.SyncBatchPause)
	setInt(&config.ProjectorCacheSize, c.ProjectorCacheSize)

	setInt(&config.ExternalRetryAttempts, c.ExternalRetryAttempts)
	setDuration(&config.ExternalRetryBaseDelay, c.ExternalRetryBaseDelay)
	setDuration(&config.ExternalRetryMaxDelay, c.ExternalRetryMaxDelay)

	setInt(&config.StoreRetryAttempts, c.StoreRetryAttempts)
	setDuration(&config.StoreRetryBaseDelay, c.StoreRetryBaseDelay)
	setDuration(&config.StoreRetryMaxDelay, c.StoreRetryMaxDelay)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}
