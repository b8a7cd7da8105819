package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/crm-suite/backend/internal/domain/entity"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

func newDigestUseCase(repo ReportRepository, queue *mockDigestQueue) *ScheduleDigestUseCase {
	clock := &fixedClock{now: summaryNow}
	resolver := NewDateRangeResolver(clock)
	summary := NewGetSummaryUseCase(repo, resolver, SummaryOptions{})
	return NewScheduleDigestUseCase(summary, queue, clock)
}

func TestScheduleDigestUseCase_Execute(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	repo := &funcRepository{aggregate: func(_ context.Context, q AggregateQuery) (decimal.Decimal, error) {
		if q.Kind == AggregateSum {
			return decimal.RequireFromString("1250.50"), nil
		}
		return decimal.NewFromInt(4), nil
	}}

	queue := new(mockDigestQueue)
	queue.On("Create", mock.Anything, mock.AnythingOfType("*entity.ReportDigest")).Return(nil)

	uc := newDigestUseCase(repo, queue)
	output, err := uc.Execute(context.Background(), ScheduleDigestInput{
		TenantID:       tenantID,
		RequestedBy:    userID,
		TimeRange:      TimeRangeThisMonth,
		RecipientEmail: " Owner <owner@example.com> ",
		RecipientName:  " Dana ",
		Locale:         language.English,
	})

	require.NoError(t, err)
	digest := output.Digest
	assert.Equal(t, tenantID, digest.TenantID)
	assert.Equal(t, userID, digest.RequestedBy)
	assert.Equal(t, "owner@example.com", digest.RecipientEmail)
	assert.Equal(t, "Dana", digest.RecipientName)
	assert.Equal(t, entity.DigestStatusPending, digest.Status)
	assert.Equal(t, summaryNow, digest.ScheduledAt)
	assert.Equal(t, "Report summary: This month (01/03/2025 - 12/03/2025)", digest.Subject)

	snapshot := digest.Snapshot
	assert.Equal(t, "en", snapshot.Locale)
	assert.Equal(t, "ltr", snapshot.Direction)
	require.Len(t, snapshot.Rows, len(MetricCatalog))
	assert.Equal(t, "New leads", snapshot.Rows[0].Label)
	assert.Equal(t, "4", snapshot.Rows[0].Value)
	assert.Equal(t, "0.00%", snapshot.Rows[0].PercentChange)
	assert.Equal(t, "flat", snapshot.Rows[0].Trend)
	assert.Len(t, snapshot.Columns, 5)

	assert.NotNil(t, output.Summary)
	queue.AssertExpectations(t)
}

func TestScheduleDigestUseCase_HebrewSnapshot(t *testing.T) {
	repo := &funcRepository{aggregate: func(_ context.Context, q AggregateQuery) (decimal.Decimal, error) {
		if q.Interval.From.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
			return decimal.NewFromInt(12), nil
		}
		return decimal.NewFromInt(8), nil
	}}
	queue := new(mockDigestQueue)
	queue.On("Create", mock.Anything, mock.Anything).Return(nil)

	output, err := newDigestUseCase(repo, queue).Execute(context.Background(), ScheduleDigestInput{
		TenantID:       uuid.New(),
		TimeRange:      TimeRangeThisMonth,
		RecipientEmail: "owner@example.com",
		Locale:         language.Hebrew,
	})

	require.NoError(t, err)
	snapshot := output.Digest.Snapshot
	assert.Equal(t, "rtl", snapshot.Direction)
	assert.Equal(t, "סיכום דוח: החודש", snapshot.Heading)
	assert.Equal(t, "לידים חדשים", snapshot.Rows[0].Label)
	assert.Equal(t, "+4", snapshot.Rows[0].Delta)
	assert.Equal(t, "50.00%", snapshot.Rows[0].PercentChange)
	assert.Equal(t, "up", snapshot.Rows[0].Trend)
}

func TestScheduleDigestUseCase_Errors(t *testing.T) {
	okRepo := &funcRepository{aggregate: func(context.Context, AggregateQuery) (decimal.Decimal, error) {
		return decimal.Zero, nil
	}}

	t.Run("invalid recipient", func(t *testing.T) {
		queue := new(mockDigestQueue)
		_, err := newDigestUseCase(okRepo, queue).Execute(context.Background(), ScheduleDigestInput{
			TenantID:       uuid.New(),
			TimeRange:      TimeRangeToday,
			RecipientEmail: "not-an-email",
		})
		assert.ErrorIs(t, err, domainerror.ErrInvalidRecipient)
		queue.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("summary failure queues nothing", func(t *testing.T) {
		failing := &funcRepository{aggregate: func(context.Context, AggregateQuery) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("db down")
		}}
		queue := new(mockDigestQueue)
		_, err := newDigestUseCase(failing, queue).Execute(context.Background(), ScheduleDigestInput{
			TenantID:       uuid.New(),
			TimeRange:      TimeRangeToday,
			RecipientEmail: "owner@example.com",
		})
		assert.ErrorIs(t, err, domainerror.ErrReportQueryFailed)
		queue.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("queue failure", func(t *testing.T) {
		queue := new(mockDigestQueue)
		queue.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		_, err := newDigestUseCase(okRepo, queue).Execute(context.Background(), ScheduleDigestInput{
			TenantID:       uuid.New(),
			TimeRange:      TimeRangeToday,
			RecipientEmail: "owner@example.com",
		})
		assert.ErrorIs(t, err, domainerror.ErrDigestQueueFailed)
	})
}

func TestGetDigestUseCase_TenantIsolation(t *testing.T) {
	tenantID := uuid.New()
	digest := entity.NewReportDigest(tenantID, uuid.New(), "owner@example.com", "", "subject", entity.DigestSnapshot{}, summaryNow)

	queue := new(mockDigestQueue)
	queue.On("GetByID", mock.Anything, digest.ID).Return(digest, nil)
	missingID := uuid.New()
	queue.On("GetByID", mock.Anything, missingID).Return(nil, domainerror.ErrDigestNotFound)

	uc := NewGetDigestUseCase(queue)

	found, err := uc.Execute(context.Background(), tenantID, digest.ID)
	require.NoError(t, err)
	assert.Equal(t, digest, found)

	_, err = uc.Execute(context.Background(), uuid.New(), digest.ID)
	assert.ErrorIs(t, err, domainerror.ErrDigestNotFound)

	_, err = uc.Execute(context.Background(), tenantID, missingID)
	assert.ErrorIs(t, err, domainerror.ErrDigestNotFound)
}

func TestListDigestsUseCase_ClampsLimit(t *testing.T) {
	tenantID := uuid.New()
	queue := new(mockDigestQueue)
	queue.On("ListByTenant", mock.Anything, tenantID, maxDigestListLimit).Return([]*entity.ReportDigest{}, nil)
	queue.On("ListByTenant", mock.Anything, tenantID, DefaultPageSize).Return([]*entity.ReportDigest{}, nil)

	uc := NewListDigestsUseCase(queue)

	_, err := uc.Execute(context.Background(), tenantID, 1000)
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), tenantID, 0)
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), uuid.Nil, 10)
	assert.ErrorIs(t, err, domainerror.ErrMissingTenant)

	queue.AssertExpectations(t)
}
