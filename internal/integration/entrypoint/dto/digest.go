// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/crm-suite/backend/internal/domain/entity"
)

// ScheduleDigestRequest represents the request body for scheduling a report digest.
type ScheduleDigestRequest struct {
	TimeRange      string `json:"time_range" binding:"required"`
	From           string `json:"from"`
	To             string `json:"to"`
	RecipientEmail string `json:"recipient_email" binding:"required"`
	RecipientName  string `json:"recipient_name"`
}

// DigestResponse represents a queued report digest.
type DigestResponse struct {
	ID             string                `json:"id"`
	Status         string                `json:"status"`
	RecipientEmail string                `json:"recipient_email"`
	Subject        string                `json:"subject"`
	Attempts       int                   `json:"attempts"`
	LastError      string                `json:"last_error,omitempty"`
	CreatedAt      string                `json:"created_at"`
	ScheduledAt    string                `json:"scheduled_at"`
	ProcessedAt    *string               `json:"processed_at,omitempty"`
	Snapshot       entity.DigestSnapshot `json:"snapshot"`
}

// DigestEnvelope wraps a single digest.
type DigestEnvelope struct {
	Data DigestResponse `json:"data"`
}

// DigestListResponse wraps a list of digests.
type DigestListResponse struct {
	Data []DigestResponse `json:"data"`
}

// ToDigestResponse converts a domain ReportDigest entity to a DigestResponse DTO.
func ToDigestResponse(d *entity.ReportDigest) DigestResponse {
	resp := DigestResponse{
		ID:             d.ID.String(),
		Status:         string(d.Status),
		RecipientEmail: d.RecipientEmail,
		Subject:        d.Subject,
		Attempts:       d.Attempts,
		LastError:      d.LastError,
		CreatedAt:      formatTimestamp(d.CreatedAt),
		ScheduledAt:    formatTimestamp(d.ScheduledAt),
		Snapshot:       d.Snapshot,
	}
	if d.ProcessedAt != nil {
		processed := formatTimestamp(*d.ProcessedAt)
		resp.ProcessedAt = &processed
	}
	return resp
}

// ToDigestListResponse converts digests to a DigestListResponse DTO.
func ToDigestListResponse(digests []*entity.ReportDigest) DigestListResponse {
	data := make([]DigestResponse, len(digests))
	for i, d := range digests {
		data[i] = ToDigestResponse(d)
	}
	return DigestListResponse{Data: data}
}
