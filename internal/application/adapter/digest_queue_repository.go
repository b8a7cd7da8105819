// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crm-suite/backend/internal/domain/entity"
)

// DigestQueueRepository defines persistence operations for queued report digests.
type DigestQueueRepository interface {
	// Create adds a new digest to the queue.
	Create(ctx context.Context, digest *entity.ReportDigest) error

	// GetDue retrieves pending digests scheduled at or before now, oldest first.
	GetDue(ctx context.Context, now time.Time, limit int) ([]*entity.ReportDigest, error)

	// Update saves changes to a digest.
	Update(ctx context.Context, digest *entity.ReportDigest) error

	// GetByID retrieves a specific digest by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReportDigest, error)

	// ListByTenant retrieves a tenant's most recent digests, newest first.
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReportDigest, error)
}
