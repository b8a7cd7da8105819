// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crm-suite/backend/internal/application/adapter"
	"github.com/crm-suite/backend/internal/domain/entity"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
	"github.com/crm-suite/backend/internal/integration/email/templates"
)

// Worker processes the digest queue and sends emails.
type Worker struct {
	queue        adapter.DigestQueueRepository
	sender       adapter.EmailSender
	renderer     *templates.Renderer
	now          func() time.Time
	pollInterval time.Duration
	batchSize    int
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// NewWorker creates a new email worker. now defaults to time.Now.
func NewWorker(
	queue adapter.DigestQueueRepository,
	sender adapter.EmailSender,
	renderer *templates.Renderer,
	config WorkerConfig,
	now func() time.Time,
) *Worker {
	if now == nil {
		now = time.Now
	}
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}

	return &Worker{
		queue:        queue,
		sender:       sender,
		renderer:     renderer,
		now:          now,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

// ProcessNow processes all due digests immediately.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}

// processBatch fetches and processes a batch of due digests.
func (w *Worker) processBatch(ctx context.Context) {
	digests, err := w.queue.GetDue(ctx, w.now(), w.batchSize)
	if err != nil {
		slog.Error("Failed to get due digests", "error", err)
		return
	}

	if len(digests) == 0 {
		return
	}

	slog.Debug("Processing digest batch", "count", len(digests))

	now := w.now()
	for _, digest := range digests {
		select {
		case <-ctx.Done():
			return
		default:
		}
		// The scan may be stale when another worker shares the queue.
		if !digest.IsDue(now) {
			slog.Debug("Skipping digest that is no longer due", "digest_id", digest.ID, "status", digest.Status)
			continue
		}
		w.processDigest(ctx, digest)
	}
}

// processDigest renders and sends a single digest.
func (w *Worker) processDigest(ctx context.Context, digest *entity.ReportDigest) {
	logger := slog.With(
		"digest_id", digest.ID,
		"tenant_id", digest.TenantID,
		"template", digest.Template,
	)

	digest.MarkProcessing()
	if err := w.queue.Update(ctx, digest); err != nil {
		logger.Error("Failed to mark digest as processing", "error", err)
		return
	}

	html, text, err := w.render(digest)
	if err != nil {
		logger.Error("Failed to render digest", "error", err)
		w.handleFailure(ctx, digest, err, true)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      digest.RecipientEmail,
		Name:    digest.RecipientName,
		Subject: digest.Subject,
		HTML:    html,
		Text:    text,
		Tags: map[string]string{
			"tenant_id": digest.TenantID.String(),
			"digest_id": digest.ID.String(),
		},
	})
	if err != nil {
		logger.Error("Failed to send digest", "error", err)
		w.handleFailure(ctx, digest, err, domainerror.IsPermanent(err))
		return
	}

	digest.MarkSent(result.MessageID, w.now())
	if err := w.queue.Update(ctx, digest); err != nil {
		logger.Error("Failed to mark digest as sent", "error", err)
		return
	}

	logger.Info("Digest sent successfully", "message_id", result.MessageID)
}

// render renders the template the digest was queued with.
func (w *Worker) render(digest *entity.ReportDigest) (html string, text string, err error) {
	switch digest.Template {
	case entity.TemplateReportDigest:
		return w.renderer.Render(string(digest.Template), templates.DigestData{
			RecipientName:  digest.RecipientName,
			DigestSnapshot: digest.Snapshot,
		})
	default:
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeUnknownTemplate,
			"unknown template type",
			fmt.Errorf("%w: %s", domainerror.ErrUnknownTemplate, digest.Template),
		)
	}
}

// handleFailure records a failed attempt and reschedules or gives up.
func (w *Worker) handleFailure(ctx context.Context, digest *entity.ReportDigest, err error, permanent bool) {
	digest.MarkFailed(err, permanent, w.now())

	if updateErr := w.queue.Update(ctx, digest); updateErr != nil {
		slog.Error("Failed to update digest after failure",
			"digest_id", digest.ID,
			"error", updateErr,
		)
	}

	if digest.Status == entity.DigestStatusFailed {
		slog.Warn("Digest permanently failed",
			"digest_id", digest.ID,
			"attempts", digest.Attempts,
			"last_error", digest.LastError,
		)
	} else {
		slog.Info("Digest scheduled for retry",
			"digest_id", digest.ID,
			"attempts", digest.Attempts,
			"scheduled_at", digest.ScheduledAt,
		)
	}
}
