package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

// GetSummaryInput represents the input for the report summary.
type GetSummaryInput struct {
	TenantID  uuid.UUID
	TimeRange TimeRange
	From      *time.Time
	To        *time.Time
}

// MetricComparison is one metric for the current period next to the previous one.
type MetricComparison struct {
	Key           MetricKey
	Module        Module
	Monetary      bool
	Value         decimal.Decimal
	PreviousValue decimal.Decimal
	Delta         decimal.Decimal
	PercentChange decimal.Decimal
}

// GetSummaryOutput represents the output of the report summary.
type GetSummaryOutput struct {
	TimeRange   TimeRange
	Current     DateInterval
	Previous    DateInterval
	Granularity Granularity
	Metrics     []MetricComparison
}

// SummaryOptions tunes the aggregate fan-out.
type SummaryOptions struct {
	// MaxParallelQueries bounds concurrent aggregate queries; 0 means unbounded.
	MaxParallelQueries int
	// QueryTimeout bounds the whole fan-out; 0 disables it.
	QueryTimeout time.Duration
}

// GetSummaryUseCase computes every catalog metric for the current and previous period.
type GetSummaryUseCase struct {
	repo     ReportRepository
	resolver *DateRangeResolver
	metrics  []Metric
	options  SummaryOptions
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(repo ReportRepository, resolver *DateRangeResolver, options SummaryOptions) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		repo:     repo,
		resolver: resolver,
		metrics:  MetricCatalog,
		options:  options,
	}
}

// Execute resolves the comparison pair and runs one aggregate query per
// metric and period in parallel. The first failing query cancels the rest
// and fails the whole summary; partial results are never returned.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	if err := validateTenantAndRange(input.TenantID, input.TimeRange); err != nil {
		return nil, err
	}

	pair, granularity, err := uc.resolver.ResolveComparison(input.TimeRange, input.From, input.To)
	if err != nil {
		return nil, err
	}

	if uc.options.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.options.QueryTimeout)
		defer cancel()
	}

	periods := [2]DateInterval{pair.Current, pair.Previous}
	// values[i*2] is metric i in the current period, values[i*2+1] in the previous one.
	values := make([]decimal.Decimal, len(uc.metrics)*2)

	sources := make([]RecordSource, len(uc.metrics))
	for i, metric := range uc.metrics {
		source, ok := SourceFor(metric.Module)
		if !ok {
			return nil, domainerror.NewReportError(
				domainerror.ErrCodeReportInternalError,
				"metric references an unknown module",
				fmt.Errorf("metric %s: module %s", metric.Key, metric.Module),
			)
		}
		sources[i] = source
	}

	g, gctx := errgroup.WithContext(ctx)
	if uc.options.MaxParallelQueries > 0 {
		g.SetLimit(uc.options.MaxParallelQueries)
	}

	for i, metric := range uc.metrics {
		metric := metric
		source := sources[i]
		for p, interval := range periods {
			interval := interval
			slot := i*2 + p
			g.Go(func() error {
				value, err := uc.repo.Aggregate(gctx, AggregateQuery{
					TenantID: input.TenantID,
					Source:   source,
					Kind:     metric.Kind,
					Interval: interval,
					Filters:  metric.Filters,
				})
				if err != nil {
					return fmt.Errorf("failed to aggregate %s: %w", metric.Key, err)
				}
				values[slot] = value
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportQueryFailed,
			"failed to compute report summary",
			fmt.Errorf("%w: %w", domainerror.ErrReportQueryFailed, err),
		)
	}

	metrics := make([]MetricComparison, len(uc.metrics))
	for i, metric := range uc.metrics {
		current, previous := values[i*2], values[i*2+1]
		delta, percent := CompareValues(current, previous)
		metrics[i] = MetricComparison{
			Key:           metric.Key,
			Module:        metric.Module,
			Monetary:      metric.IsMonetary(),
			Value:         current,
			PreviousValue: previous,
			Delta:         delta,
			PercentChange: percent,
		}
	}

	return &GetSummaryOutput{
		TimeRange:   input.TimeRange,
		Current:     pair.Current,
		Previous:    pair.Previous,
		Granularity: granularity,
		Metrics:     metrics,
	}, nil
}

// CompareValues returns current-previous and the percent change rounded to
// two places. A change from zero counts as +100% (or -100% for a negative value).
func CompareValues(current, previous decimal.Decimal) (delta, percent decimal.Decimal) {
	delta = current.Sub(previous)
	if previous.IsZero() {
		return delta, decimal.NewFromInt(int64(current.Sign()) * 100)
	}
	percent = delta.Mul(decimal.NewFromInt(100)).Div(previous.Abs()).Round(2)
	return delta, percent
}

func validateTenantAndRange(tenantID uuid.UUID, tr TimeRange) error {
	if tenantID == uuid.Nil {
		return domainerror.NewReportError(
			domainerror.ErrCodeMissingTenant,
			domainerror.ErrMissingTenant.Error(),
			domainerror.ErrMissingTenant,
		)
	}
	if !tr.IsValid() {
		return domainerror.NewReportError(
			domainerror.ErrCodeInvalidTimeRange,
			domainerror.ErrInvalidTimeRange.Error(),
			domainerror.ErrInvalidTimeRange,
		)
	}
	return nil
}
