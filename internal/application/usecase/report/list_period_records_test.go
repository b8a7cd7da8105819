package report

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

func TestListPeriodRecordsUseCase_Execute(t *testing.T) {
	tenantID := uuid.New()
	now := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)
	record := PeriodRecord{ID: uuid.New(), Title: "Dana Levi", Status: "new", OccurredAt: now}

	repo := new(mockReportRepository)
	repo.On("ListRecords", mock.Anything, mock.MatchedBy(func(q RecordQuery) bool {
		return q.TenantID == tenantID &&
			q.Source.Module == ModuleLeads &&
			q.Status == "new" &&
			q.Search == "levi" &&
			q.Limit == 10 &&
			q.Offset == 20
	})).Return([]PeriodRecord{record}, int64(21), nil)

	uc := NewListPeriodRecordsUseCase(repo, newTestResolver(now))
	output, err := uc.Execute(context.Background(), ListPeriodRecordsInput{
		TenantID:  tenantID,
		Module:    ModuleLeads,
		TimeRange: TimeRangeThisMonth,
		Status:    " new ",
		Search:    "levi ",
		Page:      3,
		PageSize:  10,
	})

	require.NoError(t, err)
	assert.Equal(t, []PeriodRecord{record}, output.Records)
	assert.True(t, output.HasAmount)
	assert.Equal(t, Pagination{Page: 3, PageSize: 10, TotalItems: 21, TotalPages: 3, HasNext: false}, output.Pagination)
	repo.AssertExpectations(t)
}

func TestListPeriodRecordsUseCase_Defaults(t *testing.T) {
	repo := new(mockReportRepository)
	repo.On("ListRecords", mock.Anything, mock.MatchedBy(func(q RecordQuery) bool {
		return q.Limit == DefaultPageSize && q.Offset == 0
	})).Return(nil, int64(0), nil)

	uc := NewListPeriodRecordsUseCase(repo, newTestResolver(time.Now()))
	output, err := uc.Execute(context.Background(), ListPeriodRecordsInput{
		TenantID:  uuid.New(),
		Module:    ModuleCustomers,
		TimeRange: TimeRangeToday,
	})

	require.NoError(t, err)
	assert.NotNil(t, output.Records)
	assert.Empty(t, output.Records)
	assert.False(t, output.HasAmount)
	assert.Equal(t, 0, output.Pagination.TotalPages)
}

func TestListPeriodRecordsUseCase_LastAddressablePage(t *testing.T) {
	page := math.MaxInt / MaxPageSize
	repo := new(mockReportRepository)
	repo.On("ListRecords", mock.Anything, mock.MatchedBy(func(q RecordQuery) bool {
		return q.Offset == (page-1)*MaxPageSize && q.Offset > 0
	})).Return(nil, int64(3), nil)

	uc := NewListPeriodRecordsUseCase(repo, newTestResolver(time.Now()))
	output, err := uc.Execute(context.Background(), ListPeriodRecordsInput{
		TenantID:  uuid.New(),
		Module:    ModuleOrders,
		TimeRange: TimeRangeToday,
		Page:      page,
		PageSize:  MaxPageSize,
	})

	require.NoError(t, err)
	assert.Empty(t, output.Records)
	assert.False(t, output.Pagination.HasNext)
	repo.AssertExpectations(t)
}

func TestListPeriodRecordsUseCase_InvalidPagination(t *testing.T) {
	repo := new(mockReportRepository)
	uc := NewListPeriodRecordsUseCase(repo, newTestResolver(time.Now()))

	for _, input := range []ListPeriodRecordsInput{
		{Page: -1, PageSize: 10},
		{Page: 1, PageSize: -5},
		{Page: 1, PageSize: MaxPageSize + 1},
		{Page: math.MaxInt, PageSize: MaxPageSize},
		{Page: math.MaxInt/MaxPageSize + 1, PageSize: MaxPageSize},
	} {
		input.TenantID = uuid.New()
		input.Module = ModuleOrders
		input.TimeRange = TimeRangeToday

		_, err := uc.Execute(context.Background(), input)
		assert.ErrorIs(t, err, domainerror.ErrInvalidPagination)
	}
	repo.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, size int
		total      int64
		want       Pagination
	}{
		{1, 20, 0, Pagination{Page: 1, PageSize: 20, TotalItems: 0, TotalPages: 0, HasNext: false}},
		{1, 20, 20, Pagination{Page: 1, PageSize: 20, TotalItems: 20, TotalPages: 1, HasNext: false}},
		{1, 20, 21, Pagination{Page: 1, PageSize: 20, TotalItems: 21, TotalPages: 2, HasNext: true}},
		{2, 20, 21, Pagination{Page: 2, PageSize: 20, TotalItems: 21, TotalPages: 2, HasNext: false}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPagination(tt.page, tt.size, tt.total))
	}
}
