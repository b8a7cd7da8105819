package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

// GetTrendsInput represents the input for a module trend series.
type GetTrendsInput struct {
	TenantID    uuid.UUID
	Module      Module
	TimeRange   TimeRange
	From        *time.Time
	To          *time.Time
	Granularity Granularity // optional; defaults to the selector's granularity
	Locale      language.Tag
}

// TrendPoint is one bucket of a trend series.
type TrendPoint struct {
	PeriodInfo
	Count  int
	Amount decimal.Decimal
}

// GetTrendsOutput represents the output of a module trend series.
type GetTrendsOutput struct {
	Module      Module
	TimeRange   TimeRange
	Interval    DateInterval
	Granularity Granularity
	HasAmount   bool
	TotalCount  int
	TotalAmount decimal.Decimal
	Points      []TrendPoint
}

// GetTrendsUseCase buckets a module's records into a gap-free series.
type GetTrendsUseCase struct {
	repo     ReportRepository
	resolver *DateRangeResolver
}

// NewGetTrendsUseCase creates a new GetTrendsUseCase instance.
func NewGetTrendsUseCase(repo ReportRepository, resolver *DateRangeResolver) *GetTrendsUseCase {
	return &GetTrendsUseCase{
		repo:     repo,
		resolver: resolver,
	}
}

// Execute retrieves the module timeline and aggregates it per bucket.
func (uc *GetTrendsUseCase) Execute(ctx context.Context, input GetTrendsInput) (*GetTrendsOutput, error) {
	source, err := uc.validateInput(input)
	if err != nil {
		return nil, err
	}

	interval, err := uc.resolver.ResolveInterval(input.TimeRange, input.From, input.To)
	if err != nil {
		return nil, err
	}

	granularity := input.Granularity
	if granularity == "" {
		granularity = uc.resolver.ResolveGranularity(input.TimeRange)
	}
	if CountPeriodBuckets(interval, granularity) > MaxSeriesBuckets {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeSeriesTooLong,
			domainerror.ErrSeriesTooLong.Error(),
			domainerror.ErrSeriesTooLong,
		)
	}

	points, err := uc.repo.Timeline(ctx, TimelineQuery{
		TenantID: input.TenantID,
		Source:   source,
		Interval: interval,
	})
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportQueryFailed,
			"failed to load trend data",
			fmt.Errorf("%w: %w", domainerror.ErrReportQueryFailed, err),
		)
	}

	series := GeneratePeriodSeries(interval, granularity, input.Locale)
	trend := make([]TrendPoint, len(series))
	index := make(map[string]int, len(series))
	for i, period := range series {
		trend[i] = TrendPoint{PeriodInfo: period, Amount: decimal.Zero}
		index[period.Key] = i
	}

	loc := interval.From.Location()
	totalCount := 0
	totalAmount := decimal.Zero
	for _, point := range points {
		if !interval.Contains(point.OccurredAt) {
			continue
		}
		i, ok := index[GetPeriodKeyForDate(point.OccurredAt.In(loc), granularity)]
		if !ok {
			continue
		}
		trend[i].Count++
		trend[i].Amount = trend[i].Amount.Add(point.Amount)
		totalCount++
		totalAmount = totalAmount.Add(point.Amount)
	}

	return &GetTrendsOutput{
		Module:      source.Module,
		TimeRange:   input.TimeRange,
		Interval:    interval,
		Granularity: granularity,
		HasAmount:   source.HasAmount(),
		TotalCount:  totalCount,
		TotalAmount: totalAmount,
		Points:      trend,
	}, nil
}

// validateInput validates the input parameters and returns the module source.
func (uc *GetTrendsUseCase) validateInput(input GetTrendsInput) (RecordSource, error) {
	if err := validateTenantAndRange(input.TenantID, input.TimeRange); err != nil {
		return RecordSource{}, err
	}
	if input.Granularity != "" && !input.Granularity.IsValid() {
		return RecordSource{}, domainerror.NewReportError(
			domainerror.ErrCodeInvalidGranularity,
			domainerror.ErrInvalidGranularity.Error(),
			domainerror.ErrInvalidGranularity,
		)
	}
	return ParseModule(string(input.Module))
}
