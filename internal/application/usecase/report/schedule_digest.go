package report

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/crm-suite/backend/internal/application/adapter"
	"github.com/crm-suite/backend/internal/domain/entity"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

// ScheduleDigestInput represents the input for scheduling a report digest email.
type ScheduleDigestInput struct {
	TenantID       uuid.UUID
	RequestedBy    uuid.UUID
	TimeRange      TimeRange
	From           *time.Time
	To             *time.Time
	RecipientEmail string
	RecipientName  string
	Locale         language.Tag
}

// ScheduleDigestOutput represents the queued digest and the summary it froze.
type ScheduleDigestOutput struct {
	Digest  *entity.ReportDigest
	Summary *GetSummaryOutput
}

// ScheduleDigestUseCase computes a summary and queues it for email delivery.
type ScheduleDigestUseCase struct {
	summary *GetSummaryUseCase
	queue   adapter.DigestQueueRepository
	clock   Clock
}

// NewScheduleDigestUseCase creates a new ScheduleDigestUseCase instance.
func NewScheduleDigestUseCase(summary *GetSummaryUseCase, queue adapter.DigestQueueRepository, clock Clock) *ScheduleDigestUseCase {
	return &ScheduleDigestUseCase{
		summary: summary,
		queue:   queue,
		clock:   clock,
	}
}

// Execute computes the summary first; nothing is queued when it fails.
func (uc *ScheduleDigestUseCase) Execute(ctx context.Context, input ScheduleDigestInput) (*ScheduleDigestOutput, error) {
	recipient, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}

	summary, err := uc.summary.Execute(ctx, GetSummaryInput{
		TenantID:  input.TenantID,
		TimeRange: input.TimeRange,
		From:      input.From,
		To:        input.To,
	})
	if err != nil {
		return nil, err
	}

	snapshot := BuildDigestSnapshot(summary, input.Locale)
	subject := snapshot.Heading + " (" + snapshot.PeriodLabel + ")"

	digest := entity.NewReportDigest(
		input.TenantID,
		input.RequestedBy,
		recipient,
		strings.TrimSpace(input.RecipientName),
		subject,
		snapshot,
		uc.clock.Now(),
	)

	if err := uc.queue.Create(ctx, digest); err != nil {
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeDigestQueueFailed,
			"failed to queue report digest",
			fmt.Errorf("%w: %w", domainerror.ErrDigestQueueFailed, err),
		)
	}

	return &ScheduleDigestOutput{
		Digest:  digest,
		Summary: summary,
	}, nil
}

// validateInput validates the input parameters and returns the bare recipient address.
func (uc *ScheduleDigestUseCase) validateInput(input ScheduleDigestInput) (string, error) {
	if err := validateTenantAndRange(input.TenantID, input.TimeRange); err != nil {
		return "", err
	}

	address, err := mail.ParseAddress(strings.TrimSpace(input.RecipientEmail))
	if err != nil {
		return "", domainerror.NewReportError(
			domainerror.ErrCodeInvalidRecipient,
			domainerror.ErrInvalidRecipient.Error(),
			domainerror.ErrInvalidRecipient,
		)
	}
	return address.Address, nil
}

// BuildDigestSnapshot renders a summary into localized, display-ready rows.
func BuildDigestSnapshot(summary *GetSummaryOutput, locale language.Tag) entity.DigestSnapshot {
	rows := make([]entity.DigestRow, len(summary.Metrics))
	for i, metric := range summary.Metrics {
		trend := "flat"
		switch metric.Delta.Sign() {
		case 1:
			trend = "up"
		case -1:
			trend = "down"
		}

		rows[i] = entity.DigestRow{
			Label:         MetricLabel(metric.Key, locale),
			Value:         FormatNumber(metric.Value, metric.Monetary, locale),
			Previous:      FormatNumber(metric.PreviousValue, metric.Monetary, locale),
			Delta:         FormatSigned(metric.Delta, metric.Monetary, locale),
			PercentChange: metric.PercentChange.StringFixed(2) + "%",
			Trend:         trend,
		}
	}

	return entity.DigestSnapshot{
		Locale:        LocaleCode(locale),
		Direction:     TextDirection(locale),
		TimeRange:     string(summary.TimeRange),
		Heading:       DigestHeading(summary.TimeRange, locale),
		PeriodLabel:   IntervalLabel(summary.Current),
		PreviousLabel: IntervalLabel(summary.Previous),
		Columns:       DigestColumns(locale),
		Rows:          rows,
	}
}
