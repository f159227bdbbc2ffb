// Package handler maps HTTP requests onto the service layer and service
// errors onto the response envelope.
package handler

import (
	"time"
)

// Accepted timestamp layouts for expires_at payloads.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses an expires_at value in any accepted layout.
func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseDate parses a date-only query parameter (YYYY-MM-DD).
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
