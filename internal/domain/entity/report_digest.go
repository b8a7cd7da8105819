// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DigestStatus represents the delivery status of a report digest.
type DigestStatus string

const (
	DigestStatusPending    DigestStatus = "pending"
	DigestStatusProcessing DigestStatus = "processing"
	DigestStatusSent       DigestStatus = "sent"
	DigestStatusFailed     DigestStatus = "failed"
)

// DigestTemplate names the template a digest is rendered with.
type DigestTemplate string

const TemplateReportDigest DigestTemplate = "report_digest"

const defaultDigestMaxAttempts = 3

// digestRetryDelays is indexed by the number of attempts already made.
var digestRetryDelays = []time.Duration{0, 1 * time.Minute, 5 * time.Minute}

// DigestRow is one rendered metric line of a digest.
type DigestRow struct {
	Label         string `json:"label"`
	Value         string `json:"value"`
	Previous      string `json:"previous"`
	Delta         string `json:"delta"`
	PercentChange string `json:"percent_change"`
	Trend         string `json:"trend"`
}

// DigestSnapshot is the localized report content frozen at scheduling time,
// so the mail shows the numbers the requester saw.
type DigestSnapshot struct {
	Locale        string      `json:"locale"`
	Direction     string      `json:"direction"`
	TimeRange     string      `json:"time_range"`
	Heading       string      `json:"heading"`
	PeriodLabel   string      `json:"period_label"`
	PreviousLabel string      `json:"previous_label"`
	Columns       []string    `json:"columns"`
	Rows          []DigestRow `json:"rows"`
}

// ReportDigest is a report summary queued for email delivery.
type ReportDigest struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	RequestedBy       uuid.UUID
	Template          DigestTemplate
	RecipientEmail    string
	RecipientName     string
	Subject           string
	Snapshot          DigestSnapshot
	Status            DigestStatus
	Attempts          int
	MaxAttempts       int
	LastError         string
	ProviderMessageID string
	CreatedAt         time.Time
	ScheduledAt       time.Time
	ProcessedAt       *time.Time
}

// NewReportDigest creates a pending digest due immediately.
func NewReportDigest(tenantID, requestedBy uuid.UUID, recipientEmail, recipientName, subject string, snapshot DigestSnapshot, now time.Time) *ReportDigest {
	now = now.UTC()
	return &ReportDigest{
		ID:             uuid.New(),
		TenantID:       tenantID,
		RequestedBy:    requestedBy,
		Template:       TemplateReportDigest,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		Snapshot:       snapshot,
		Status:         DigestStatusPending,
		MaxAttempts:    defaultDigestMaxAttempts,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing marks the digest as picked up by a worker.
func (d *ReportDigest) MarkProcessing() {
	d.Status = DigestStatusProcessing
}

// MarkSent records a successful hand-off to the email provider.
func (d *ReportDigest) MarkSent(providerMessageID string, now time.Time) {
	d.Status = DigestStatusSent
	d.ProviderMessageID = providerMessageID
	processed := now.UTC()
	d.ProcessedAt = &processed
}

// MarkFailed counts a failed attempt and either reschedules the digest or
// gives up when the failure is permanent or attempts are exhausted.
func (d *ReportDigest) MarkFailed(err error, permanent bool, now time.Time) {
	d.Attempts++
	d.LastError = err.Error()

	if permanent || !d.CanRetry() {
		d.Status = DigestStatusFailed
		processed := now.UTC()
		d.ProcessedAt = &processed
		return
	}

	d.Status = DigestStatusPending
	delay := digestRetryDelays[len(digestRetryDelays)-1]
	if d.Attempts < len(digestRetryDelays) {
		delay = digestRetryDelays[d.Attempts]
	}
	d.ScheduledAt = now.UTC().Add(delay)
}

// CanRetry returns true if the digest has attempts left.
func (d *ReportDigest) CanRetry() bool {
	return d.Attempts < d.MaxAttempts
}

// IsDue returns true if the digest is pending and its schedule has passed.
func (d *ReportDigest) IsDue(now time.Time) bool {
	return d.Status == DigestStatusPending && !now.Before(d.ScheduledAt)
}
