package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateQuery folds the rows of one source inside an interval into a value.
type AggregateQuery struct {
	TenantID uuid.UUID
	Source   RecordSource
	Kind     AggregateKind
	Interval DateInterval
	Filters  []Filter
}

// TimelineQuery selects the dated rows of one source inside an interval.
type TimelineQuery struct {
	TenantID uuid.UUID
	Source   RecordSource
	Interval DateInterval
	Filters  []Filter
}

// TimelinePoint is one row of a timeline. Amount is zero for sources
// without an amount column.
type TimelinePoint struct {
	OccurredAt time.Time
	Amount     decimal.Decimal
}

// RecordQuery lists the rows of one source inside an interval.
type RecordQuery struct {
	TenantID uuid.UUID
	Source   RecordSource
	Interval DateInterval
	Status   string
	Search   string
	Limit    int
	Offset   int
}

// PeriodRecord is a row listed in a period drill-down.
type PeriodRecord struct {
	ID         uuid.UUID
	Title      string
	Status     string
	Amount     *decimal.Decimal
	OccurredAt time.Time
}

// ReportRepository defines the read-only queries reports run against the record store.
type ReportRepository interface {
	// Aggregate returns COUNT(*) or SUM(amount) of the matching rows.
	Aggregate(ctx context.Context, query AggregateQuery) (decimal.Decimal, error)

	// Timeline returns the matching rows ordered by their date column.
	Timeline(ctx context.Context, query TimelineQuery) ([]TimelinePoint, error)

	// ListRecords returns one page of matching rows, newest first, and the total match count.
	ListRecords(ctx context.Context, query RecordQuery) ([]PeriodRecord, int64, error)
}
