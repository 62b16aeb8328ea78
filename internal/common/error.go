// Package common defines shared constants and sentinel errors used across
// hebsync components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrValidation = errors.New("validation error")

	// Watermark errors. A conflict means another writer advanced the
	// event's watermark between read and update.
	ErrWatermarkConflict = errors.New("watermark conflict")

	// Scheduler errors.
	ErrSweepInProgress = errors.New("sweep already in progress")

	// Credential errors.
	ErrCredentialUnavailable = errors.New("credential unavailable")
)
