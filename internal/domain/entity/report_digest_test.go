package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportDigest_Lifecycle(t *testing.T) {
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

	newDigest := func() *ReportDigest {
		return NewReportDigest(uuid.New(), uuid.New(), "owner@example.com", "Owner", "Digest", DigestSnapshot{}, now)
	}

	t.Run("new digest is pending and due", func(t *testing.T) {
		d := newDigest()
		assert.Equal(t, DigestStatusPending, d.Status)
		assert.Equal(t, TemplateReportDigest, d.Template)
		assert.Equal(t, 3, d.MaxAttempts)
		assert.True(t, d.IsDue(now))
		assert.False(t, d.IsDue(now.Add(-time.Second)))
	})

	t.Run("sent digest records provider id", func(t *testing.T) {
		d := newDigest()
		d.MarkProcessing()
		assert.Equal(t, DigestStatusProcessing, d.Status)
		assert.False(t, d.IsDue(now))

		d.MarkSent("msg-1", now.Add(time.Minute))
		assert.Equal(t, DigestStatusSent, d.Status)
		assert.Equal(t, "msg-1", d.ProviderMessageID)
		require.NotNil(t, d.ProcessedAt)
		assert.Equal(t, now.Add(time.Minute), *d.ProcessedAt)
	})

	t.Run("temporary failures back off then give up", func(t *testing.T) {
		d := newDigest()
		sendErr := errors.New("provider unavailable")

		d.MarkFailed(sendErr, false, now)
		assert.Equal(t, DigestStatusPending, d.Status)
		assert.Equal(t, 1, d.Attempts)
		assert.Equal(t, now.Add(time.Minute), d.ScheduledAt)
		assert.True(t, d.CanRetry())

		d.MarkFailed(sendErr, false, now)
		assert.Equal(t, now.Add(5*time.Minute), d.ScheduledAt)

		d.MarkFailed(sendErr, false, now)
		assert.Equal(t, DigestStatusFailed, d.Status)
		assert.False(t, d.CanRetry())
		assert.Equal(t, "provider unavailable", d.LastError)
		require.NotNil(t, d.ProcessedAt)
	})

	t.Run("permanent failure stops immediately", func(t *testing.T) {
		d := newDigest()
		d.MarkFailed(errors.New("invalid recipient"), true, now)
		assert.Equal(t, DigestStatusFailed, d.Status)
		assert.Equal(t, 1, d.Attempts)
	})
}
