package gcal

import (
	"errors"
	"io"
	"net"
	"strings"

	"google.golang.org/api/googleapi"
)

// 403 reasons the API documents as retry-after-backoff.
var retryableReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
}

// IsRetryable reports whether a calendar call failed in a way another
// attempt can fix: transport errors, any 5xx, 429, and quota-flavored 403.
// Other 4xx responses are permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code >= 500:
			return true
		case gerr.Code == 429:
			return true
		case gerr.Code == 403:
			for _, item := range gerr.Errors {
				if retryableReasons[item.Reason] {
					return true
				}
			}
			return strings.Contains(strings.ToLower(gerr.Message), "quota")
		}
		return false
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return false
}

// IsCalendarNotFound reports the API's 404: the target calendar was deleted
// or never existed. The orchestrator heals this on a batch's first year.
func IsCalendarNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 404
}
