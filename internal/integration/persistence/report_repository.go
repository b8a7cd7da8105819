// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/internal/application/usecase/report"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// reportRepository implements the report.ReportRepository interface.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance.
func NewReportRepository(db *gorm.DB) report.ReportRepository {
	return &reportRepository{
		db: db,
	}
}

// Aggregate returns COUNT(*) or COALESCE(SUM(amount), 0) of the matching rows.
func (r *reportRepository) Aggregate(ctx context.Context, query report.AggregateQuery) (decimal.Decimal, error) {
	expr := "COUNT(*)"
	if query.Kind == report.AggregateSum {
		if !query.Source.HasAmount() {
			return decimal.Zero, fmt.Errorf("module %s has no amount column", query.Source.Module)
		}
		expr = fmt.Sprintf("COALESCE(SUM(%s), 0)", pq.QuoteIdentifier(query.Source.AmountColumn))
	}

	var result struct {
		Value decimal.Decimal `gorm:"column:value"`
	}

	err := r.scoped(ctx, query.TenantID, query.Source, query.Interval, query.Filters).
		Select(expr + " AS value").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate %s: %w", query.Source.Module, err)
	}

	return result.Value, nil
}

// Timeline returns the date and amount of every matching row, oldest first.
func (r *reportRepository) Timeline(ctx context.Context, query report.TimelineQuery) ([]report.TimelinePoint, error) {
	dateCol := pq.QuoteIdentifier(query.Source.DateColumn)
	amountExpr := "0"
	if query.Source.HasAmount() {
		amountExpr = fmt.Sprintf("COALESCE(%s, 0)", pq.QuoteIdentifier(query.Source.AmountColumn))
	}

	var rows []struct {
		OccurredAt time.Time       `gorm:"column:occurred_at"`
		Amount     decimal.Decimal `gorm:"column:amount"`
	}

	err := r.scoped(ctx, query.TenantID, query.Source, query.Interval, query.Filters).
		Select(fmt.Sprintf("%s AS occurred_at, %s AS amount", dateCol, amountExpr)).
		Order(dateCol + " ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s timeline: %w", query.Source.Module, err)
	}

	points := make([]report.TimelinePoint, len(rows))
	for i, row := range rows {
		points[i] = report.TimelinePoint{
			OccurredAt: row.OccurredAt,
			Amount:     row.Amount,
		}
	}

	return points, nil
}

// ListRecords returns one page of matching rows, newest first, and the total match count.
func (r *reportRepository) ListRecords(ctx context.Context, query report.RecordQuery) ([]report.PeriodRecord, int64, error) {
	source := query.Source

	var filters []report.Filter
	if query.Status != "" {
		filters = append(filters, report.Filter{Column: source.StatusColumn, Op: report.FilterEq, Value: query.Status})
	}

	baseQuery := r.scoped(ctx, query.TenantID, source, query.Interval, filters)

	if query.Search != "" && len(source.SearchColumns) > 0 {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query.Search)) + "%"
		clauses := make([]string, len(source.SearchColumns))
		args := make([]interface{}, len(source.SearchColumns))
		for i, col := range source.SearchColumns {
			clauses[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, pq.QuoteIdentifier(col))
			args[i] = pattern
		}
		baseQuery = baseQuery.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var total int64
	if err := baseQuery.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", source.Module, err)
	}

	dateCol := pq.QuoteIdentifier(source.DateColumn)
	columns := []string{
		"id",
		fmt.Sprintf("COALESCE(%s, '') AS title", pq.QuoteIdentifier(source.TitleColumn)),
		fmt.Sprintf("COALESCE(%s, '') AS status", pq.QuoteIdentifier(source.StatusColumn)),
		dateCol + " AS occurred_at",
	}
	if source.HasAmount() {
		columns = append(columns, pq.QuoteIdentifier(source.AmountColumn)+" AS amount")
	}

	var rows []struct {
		ID         uuid.UUID           `gorm:"column:id"`
		Title      string              `gorm:"column:title"`
		Status     string              `gorm:"column:status"`
		OccurredAt time.Time           `gorm:"column:occurred_at"`
		Amount     decimal.NullDecimal `gorm:"column:amount"`
	}

	err := baseQuery.
		Select(strings.Join(columns, ", ")).
		Order(dateCol + " DESC").
		Order("id DESC").
		Limit(query.Limit).
		Offset(query.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", source.Module, err)
	}

	records := make([]report.PeriodRecord, len(rows))
	for i, row := range rows {
		records[i] = report.PeriodRecord{
			ID:         row.ID,
			Title:      row.Title,
			Status:     row.Status,
			OccurredAt: row.OccurredAt,
		}
		if source.HasAmount() && row.Amount.Valid {
			amount := row.Amount.Decimal
			records[i].Amount = &amount
		}
	}

	return records, total, nil
}

// scoped builds the tenant, soft-delete, interval and filter conditions shared
// by every report query. Identifiers come from the module catalog and are quoted;
// values are always bound.
func (r *reportRepository) scoped(
	ctx context.Context,
	tenantID uuid.UUID,
	source report.RecordSource,
	interval report.DateInterval,
	filters []report.Filter,
) *gorm.DB {
	dateCol := pq.QuoteIdentifier(source.DateColumn)

	query := r.db.WithContext(ctx).
		Table(source.Table).
		Where("tenant_id = ?", tenantID).
		Where("deleted_at IS NULL").
		Where(dateCol+" >= ?", interval.From.UTC()).
		Where(dateCol+" <= ?", interval.To.UTC())

	for _, f := range filters {
		col := pq.QuoteIdentifier(f.Column)
		switch f.Op {
		case report.FilterEq:
			query = query.Where(col+" = ?", f.Value)
		case report.FilterNotEq:
			query = query.Where(col+" <> ?", f.Value)
		case report.FilterIn:
			query = query.Where(col+" IN ?", f.Value)
		}
	}

	return query
}
