package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListPeriodRecordsInput represents the input for a period drill-down.
type ListPeriodRecordsInput struct {
	TenantID  uuid.UUID
	Module    Module
	TimeRange TimeRange
	From      *time.Time
	To        *time.Time
	Status    string
	Search    string
	Page      int
	PageSize  int
}

// Pagination describes the page returned by a listing.
type Pagination struct {
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
	HasNext    bool
}

// ListPeriodRecordsOutput represents the output of a period drill-down.
type ListPeriodRecordsOutput struct {
	Module     Module
	Interval   DateInterval
	HasAmount  bool
	Records    []PeriodRecord
	Pagination Pagination
}

// ListPeriodRecordsUseCase lists the records of a module inside a period.
type ListPeriodRecordsUseCase struct {
	repo     ReportRepository
	resolver *DateRangeResolver
}

// NewListPeriodRecordsUseCase creates a new ListPeriodRecordsUseCase instance.
func NewListPeriodRecordsUseCase(repo ReportRepository, resolver *DateRangeResolver) *ListPeriodRecordsUseCase {
	return &ListPeriodRecordsUseCase{
		repo:     repo,
		resolver: resolver,
	}
}

// Execute resolves the period and fetches one page of records.
func (uc *ListPeriodRecordsUseCase) Execute(ctx context.Context, input ListPeriodRecordsInput) (*ListPeriodRecordsOutput, error) {
	if input.PageSize == 0 {
		input.PageSize = DefaultPageSize
	}
	if input.Page == 0 {
		input.Page = 1
	}

	source, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}

	interval, err := uc.resolver.ResolveInterval(input.TimeRange, input.From, input.To)
	if err != nil {
		return nil, err
	}

	records, total, err := uc.repo.ListRecords(ctx, RecordQuery{
		TenantID: input.TenantID,
		Source:   source,
		Interval: interval,
		Status:   strings.TrimSpace(input.Status),
		Search:   strings.TrimSpace(input.Search),
		Limit:    input.PageSize,
		Offset:   (input.Page - 1) * input.PageSize,
	})
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportQueryFailed,
			"failed to list period records",
			fmt.Errorf("%w: %w", domainerror.ErrReportQueryFailed, err),
		)
	}
	if records == nil {
		records = []PeriodRecord{}
	}

	return &ListPeriodRecordsOutput{
		Module:     source.Module,
		Interval:   interval,
		HasAmount:  source.HasAmount(),
		Records:    records,
		Pagination: NewPagination(input.Page, input.PageSize, total),
	}, nil
}

// validateInput validates the input parameters and returns the module source.
func (uc *ListPeriodRecordsUseCase) validateInput(input ListPeriodRecordsInput) (RecordSource, error) {
	if err := validateTenantAndRange(input.TenantID, input.TimeRange); err != nil {
		return RecordSource{}, err
	}
	// The page bound keeps the row offset from overflowing.
	if input.Page < 1 || input.PageSize < 1 || input.PageSize > MaxPageSize || input.Page > math.MaxInt/input.PageSize {
		return RecordSource{}, domainerror.NewReportError(
			domainerror.ErrCodeInvalidPagination,
			domainerror.ErrInvalidPagination.Error(),
			domainerror.ErrInvalidPagination,
		)
	}
	return ParseModule(string(input.Module))
}

// NewPagination computes page metadata for total matching items.
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
