package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm-suite/backend/internal/domain/entity"
	"github.com/crm-suite/backend/internal/integration/email/templates"
)

var workerNow = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

func newTestWorker(t *testing.T, queue *memoryQueue, sender *RecordingSender, now *time.Time) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	return NewWorker(queue, sender, renderer, WorkerConfig{BatchSize: 5}, func() time.Time { return *now })
}

func queuedDigest() *entity.ReportDigest {
	return entity.NewReportDigest(uuid.New(), uuid.New(), "owner@example.com", "Dana", "Report summary: Today", entity.DigestSnapshot{
		Locale:    "en",
		Direction: "ltr",
		Heading:   "Report summary: Today",
		Rows:      []entity.DigestRow{{Label: "New leads", Value: "4"}},
	}, workerNow)
}

func TestWorker_SendsDueDigest(t *testing.T) {
	digest := queuedDigest()
	queue := newMemoryQueue(digest)
	sender := NewRecordingSender()
	now := workerNow

	newTestWorker(t, queue, sender, &now).ProcessNow(context.Background())

	require.Len(t, sender.Sent(), 1)
	sent := sender.Sent()[0]
	assert.Equal(t, "owner@example.com", sent.To)
	assert.Equal(t, "Dana", sent.Name)
	assert.Contains(t, sent.HTML, "New leads")
	assert.Contains(t, sent.Text, "New leads: 4")
	assert.Equal(t, digest.ID.String(), sent.Tags["digest_id"])

	assert.Equal(t, entity.DigestStatusSent, digest.Status)
	assert.Equal(t, "local-1", digest.ProviderMessageID)
	require.NotNil(t, digest.ProcessedAt)
	assert.True(t, digest.ProcessedAt.Equal(workerNow))
}

func TestWorker_RetriesTemporaryFailure(t *testing.T) {
	digest := queuedDigest()
	queue := newMemoryQueue(digest)
	sender := NewRecordingSender()
	sender.SetFailure(errors.New("503 service unavailable"), false)
	now := workerNow
	worker := newTestWorker(t, queue, sender, &now)

	worker.ProcessNow(context.Background())

	assert.Equal(t, entity.DigestStatusPending, digest.Status)
	assert.Equal(t, 1, digest.Attempts)
	assert.Equal(t, workerNow.Add(time.Minute), digest.ScheduledAt)

	// not due yet
	worker.ProcessNow(context.Background())
	assert.Equal(t, 1, digest.Attempts)

	sender.Reset()
	now = workerNow.Add(time.Minute)
	worker.ProcessNow(context.Background())

	assert.Equal(t, entity.DigestStatusSent, digest.Status)
	assert.Len(t, sender.Sent(), 1)
}

func TestWorker_GivesUpAfterMaxAttempts(t *testing.T) {
	digest := queuedDigest()
	queue := newMemoryQueue(digest)
	sender := NewRecordingSender()
	sender.SetFailure(errors.New("timeout"), false)
	now := workerNow
	worker := newTestWorker(t, queue, sender, &now)

	for i := 0; i < 3; i++ {
		worker.ProcessNow(context.Background())
		now = now.Add(10 * time.Minute)
	}

	assert.Equal(t, entity.DigestStatusFailed, digest.Status)
	assert.Equal(t, 3, digest.Attempts)
	assert.Equal(t, "temporary email failure: temporary email failure: timeout", digest.LastError)
}

func TestWorker_PermanentFailure(t *testing.T) {
	digest := queuedDigest()
	queue := newMemoryQueue(digest)
	sender := NewRecordingSender()
	sender.SetFailure(errors.New("422 validation error"), true)
	now := workerNow

	newTestWorker(t, queue, sender, &now).ProcessNow(context.Background())

	assert.Equal(t, entity.DigestStatusFailed, digest.Status)
	assert.Equal(t, 1, digest.Attempts)
}

func TestWorker_UnknownTemplateIsPermanent(t *testing.T) {
	digest := queuedDigest()
	digest.Template = "legacy"
	queue := newMemoryQueue(digest)
	sender := NewRecordingSender()
	now := workerNow

	newTestWorker(t, queue, sender, &now).ProcessNow(context.Background())

	assert.Equal(t, entity.DigestStatusFailed, digest.Status)
	assert.Empty(t, sender.Sent())
}

func TestWorker_StartStopsOnCancel(t *testing.T) {
	queue := newMemoryQueue()
	now := workerNow
	worker := newTestWorker(t, queue, NewRecordingSender(), &now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_SkipsDigestsThatAreNotDue(t *testing.T) {
	sent := queuedDigest()
	sent.MarkSent("re_1", workerNow)
	later := queuedDigest()
	later.ScheduledAt = workerNow.Add(5 * time.Minute)

	queue := newMemoryQueue(sent, later)
	queue.stale = true
	sender := NewRecordingSender()
	now := workerNow

	newTestWorker(t, queue, sender, &now).ProcessNow(context.Background())

	assert.Empty(t, sender.Sent())
	assert.Equal(t, 0, queue.updates)
	assert.Equal(t, entity.DigestStatusSent, sent.Status)
	assert.Equal(t, entity.DigestStatusPending, later.Status)
	assert.Equal(t, 0, later.Attempts)
}
