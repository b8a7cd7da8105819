package report

import (
	"strings"
	"time"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

const dateOnlyLayout = "2006-01-02"

// ResolveRangeInput represents the input for resolving a selector without querying data.
type ResolveRangeInput struct {
	TimeRange TimeRange
	From      *time.Time
	To        *time.Time
}

// ResolveRangeOutput describes the intervals a report for the selector would compare.
type ResolveRangeOutput struct {
	TimeRange   TimeRange
	Current     DateInterval
	Previous    DateInterval
	Granularity Granularity
}

// ResolveRangeUseCase exposes the resolver so clients can label their pickers
// with the exact bounds the server will use.
type ResolveRangeUseCase struct {
	resolver *DateRangeResolver
}

// NewResolveRangeUseCase creates a new ResolveRangeUseCase instance.
func NewResolveRangeUseCase(resolver *DateRangeResolver) *ResolveRangeUseCase {
	return &ResolveRangeUseCase{resolver: resolver}
}

// Execute resolves the current interval, the previous period and the default granularity.
func (uc *ResolveRangeUseCase) Execute(input ResolveRangeInput) (*ResolveRangeOutput, error) {
	pair, granularity, err := uc.resolver.ResolveComparison(input.TimeRange, input.From, input.To)
	if err != nil {
		return nil, err
	}
	return &ResolveRangeOutput{
		TimeRange:   input.TimeRange,
		Current:     pair.Current,
		Previous:    pair.Previous,
		Granularity: granularity,
	}, nil
}

// ParseDateBound parses a custom range bound. RFC3339 values are taken as-is;
// a bare YYYY-MM-DD date is read in loc and widened to the start of the day,
// or to its end when endBound is set. An empty value yields nil.
func ParseDateBound(raw string, loc *time.Location, endBound bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}

	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(dateOnlyLayout, raw, loc)
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidDateFormat,
			domainerror.ErrInvalidDateFormat.Error(),
			domainerror.ErrInvalidDateFormat,
		)
	}

	if endBound {
		day = endOfDay(day)
	}
	return &day, nil
}
