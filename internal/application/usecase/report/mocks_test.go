package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/crm-suite/backend/internal/domain/entity"
)

type mockReportRepository struct {
	mock.Mock
}

func (m *mockReportRepository) Aggregate(ctx context.Context, query AggregateQuery) (decimal.Decimal, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockReportRepository) Timeline(ctx context.Context, query TimelineQuery) ([]TimelinePoint, error) {
	args := m.Called(ctx, query)
	points, _ := args.Get(0).([]TimelinePoint)
	return points, args.Error(1)
}

func (m *mockReportRepository) ListRecords(ctx context.Context, query RecordQuery) ([]PeriodRecord, int64, error) {
	args := m.Called(ctx, query)
	records, _ := args.Get(0).([]PeriodRecord)
	return records, args.Get(1).(int64), args.Error(2)
}

// funcRepository lets a test script Aggregate directly, for timing-sensitive cases.
type funcRepository struct {
	aggregate func(ctx context.Context, query AggregateQuery) (decimal.Decimal, error)
}

func (r *funcRepository) Aggregate(ctx context.Context, query AggregateQuery) (decimal.Decimal, error) {
	return r.aggregate(ctx, query)
}

func (r *funcRepository) Timeline(context.Context, TimelineQuery) ([]TimelinePoint, error) {
	return nil, nil
}

func (r *funcRepository) ListRecords(context.Context, RecordQuery) ([]PeriodRecord, int64, error) {
	return nil, 0, nil
}

type mockDigestQueue struct {
	mock.Mock
}

func (m *mockDigestQueue) Create(ctx context.Context, digest *entity.ReportDigest) error {
	args := m.Called(ctx, digest)
	return args.Error(0)
}

func (m *mockDigestQueue) GetDue(ctx context.Context, now time.Time, limit int) ([]*entity.ReportDigest, error) {
	args := m.Called(ctx, now, limit)
	digests, _ := args.Get(0).([]*entity.ReportDigest)
	return digests, args.Error(1)
}

func (m *mockDigestQueue) Update(ctx context.Context, digest *entity.ReportDigest) error {
	args := m.Called(ctx, digest)
	return args.Error(0)
}

func (m *mockDigestQueue) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReportDigest, error) {
	args := m.Called(ctx, id)
	digest, _ := args.Get(0).(*entity.ReportDigest)
	return digest, args.Error(1)
}

func (m *mockDigestQueue) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReportDigest, error) {
	args := m.Called(ctx, tenantID, limit)
	digests, _ := args.Get(0).([]*entity.ReportDigest)
	return digests, args.Error(1)
}
