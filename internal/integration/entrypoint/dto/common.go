// Package dto defines data transfer objects for API requests and responses.
package dto

import "time"

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// formatTimestamp renders a time with millisecond precision so interval ends
// keep their .999 fraction.
func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}
