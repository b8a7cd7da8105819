package email

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crm-suite/backend/internal/domain/entity"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

// memoryQueue is an in-memory digest queue for worker tests.
type memoryQueue struct {
	mu      sync.Mutex
	digests map[uuid.UUID]*entity.ReportDigest
	updates int
	// stale makes GetDue return every digest, as a lagging replica would.
	stale bool
}

func newMemoryQueue(digests ...*entity.ReportDigest) *memoryQueue {
	q := &memoryQueue{digests: make(map[uuid.UUID]*entity.ReportDigest)}
	for _, d := range digests {
		q.digests[d.ID] = d
	}
	return q
}

func (q *memoryQueue) Create(_ context.Context, d *entity.ReportDigest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.digests[d.ID] = d
	return nil
}

func (q *memoryQueue) GetDue(_ context.Context, now time.Time, limit int) ([]*entity.ReportDigest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var due []*entity.ReportDigest
	for _, d := range q.digests {
		if (q.stale || d.IsDue(now)) && len(due) < limit {
			due = append(due, d)
		}
	}
	return due, nil
}

func (q *memoryQueue) Update(_ context.Context, d *entity.ReportDigest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.digests[d.ID] = d
	q.updates++
	return nil
}

func (q *memoryQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.ReportDigest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	d, ok := q.digests[id]
	if !ok {
		return nil, domainerror.ErrDigestNotFound
	}
	return d, nil
}

func (q *memoryQueue) ListByTenant(_ context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReportDigest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.ReportDigest
	for _, d := range q.digests {
		if d.TenantID == tenantID && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}
