// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"golang.org/x/text/language"

	"github.com/crm-suite/backend/internal/application/usecase/report"
)

// IntervalResponse represents a closed date interval.
type IntervalResponse struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

func toIntervalResponse(i report.DateInterval) IntervalResponse {
	return IntervalResponse{
		From:  formatTimestamp(i.From),
		To:    formatTimestamp(i.To),
		Label: report.IntervalLabel(i),
	}
}

// RangeResponse represents the response for the range resolution API.
type RangeResponse struct {
	Data RangeData `json:"data"`
}

// RangeData represents the data section of the range response.
type RangeData struct {
	TimeRange   string           `json:"time_range"`
	Label       string           `json:"label"`
	Current     IntervalResponse `json:"current"`
	Previous    IntervalResponse `json:"previous"`
	Granularity string           `json:"granularity"`
}

// ToRangeResponse converts a ResolveRangeOutput to RangeResponse DTO.
func ToRangeResponse(output *report.ResolveRangeOutput, locale language.Tag) RangeResponse {
	return RangeResponse{
		Data: RangeData{
			TimeRange:   string(output.TimeRange),
			Label:       report.TimeRangeLabel(output.TimeRange, locale),
			Current:     toIntervalResponse(output.Current),
			Previous:    toIntervalResponse(output.Previous),
			Granularity: string(output.Granularity),
		},
	}
}

// SummaryResponse represents the response for the summary API.
type SummaryResponse struct {
	Data SummaryData `json:"data"`
}

// SummaryData represents the data section of the summary response.
type SummaryData struct {
	TimeRange   string           `json:"time_range"`
	Current     IntervalResponse `json:"current"`
	Previous    IntervalResponse `json:"previous"`
	Granularity string           `json:"granularity"`
	Metrics     []MetricResponse `json:"metrics"`
}

// MetricResponse represents one metric compared across both periods.
type MetricResponse struct {
	Key           string  `json:"key"`
	Label         string  `json:"label"`
	Module        string  `json:"module"`
	Monetary      bool    `json:"monetary"`
	Value         float64 `json:"value"`
	PreviousValue float64 `json:"previous_value"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percent_change"`
}

// ToSummaryResponse converts a GetSummaryOutput to SummaryResponse DTO.
func ToSummaryResponse(output *report.GetSummaryOutput, locale language.Tag) SummaryResponse {
	metrics := make([]MetricResponse, len(output.Metrics))
	for i, m := range output.Metrics {
		value, _ := m.Value.Float64()
		previous, _ := m.PreviousValue.Float64()
		delta, _ := m.Delta.Float64()
		percent, _ := m.PercentChange.Float64()
		metrics[i] = MetricResponse{
			Key:           string(m.Key),
			Label:         report.MetricLabel(m.Key, locale),
			Module:        string(m.Module),
			Monetary:      m.Monetary,
			Value:         value,
			PreviousValue: previous,
			Delta:         delta,
			PercentChange: percent,
		}
	}

	return SummaryResponse{
		Data: SummaryData{
			TimeRange:   string(output.TimeRange),
			Current:     toIntervalResponse(output.Current),
			Previous:    toIntervalResponse(output.Previous),
			Granularity: string(output.Granularity),
			Metrics:     metrics,
		},
	}
}

// TrendsResponse represents the response for the trends API.
type TrendsResponse struct {
	Data TrendsData `json:"data"`
}

// TrendsData represents the data section of the trends response.
type TrendsData struct {
	Module      string               `json:"module"`
	TimeRange   string               `json:"time_range"`
	Interval    IntervalResponse     `json:"interval"`
	Granularity string               `json:"granularity"`
	HasAmount   bool                 `json:"has_amount"`
	TotalCount  int                  `json:"total_count"`
	TotalAmount float64              `json:"total_amount"`
	Points      []TrendPointResponse `json:"points"`
}

// TrendPointResponse represents a single bucket of a trend series.
type TrendPointResponse struct {
	Key         string  `json:"key"`
	PeriodLabel string  `json:"period_label"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Count       int     `json:"count"`
	Amount      float64 `json:"amount"`
}

// ToTrendsResponse converts a GetTrendsOutput to TrendsResponse DTO.
func ToTrendsResponse(output *report.GetTrendsOutput) TrendsResponse {
	points := make([]TrendPointResponse, len(output.Points))
	for i, p := range output.Points {
		amount, _ := p.Amount.Float64()
		points[i] = TrendPointResponse{
			Key:         p.Key,
			PeriodLabel: p.PeriodLabel,
			PeriodStart: formatTimestamp(p.PeriodStart),
			PeriodEnd:   formatTimestamp(p.PeriodEnd),
			Count:       p.Count,
			Amount:      amount,
		}
	}

	totalAmount, _ := output.TotalAmount.Float64()
	return TrendsResponse{
		Data: TrendsData{
			Module:      string(output.Module),
			TimeRange:   string(output.TimeRange),
			Interval:    toIntervalResponse(output.Interval),
			Granularity: string(output.Granularity),
			HasAmount:   output.HasAmount,
			TotalCount:  output.TotalCount,
			TotalAmount: totalAmount,
			Points:      points,
		},
	}
}

// RecordsResponse represents the response for the period records API.
type RecordsResponse struct {
	Data       RecordsData        `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// RecordsData represents the data section of the period records response.
type RecordsData struct {
	Module    string           `json:"module"`
	Interval  IntervalResponse `json:"interval"`
	HasAmount bool             `json:"has_amount"`
	Records   []RecordResponse `json:"records"`
}

// RecordResponse represents one row of a period drill-down.
type RecordResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	Amount     *float64 `json:"amount,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// PaginationResponse represents pagination metadata.
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ToRecordsResponse converts a ListPeriodRecordsOutput to RecordsResponse DTO.
func ToRecordsResponse(output *report.ListPeriodRecordsOutput) RecordsResponse {
	records := make([]RecordResponse, len(output.Records))
	for i, r := range output.Records {
		records[i] = RecordResponse{
			ID:         r.ID.String(),
			Title:      r.Title,
			Status:     r.Status,
			OccurredAt: formatTimestamp(r.OccurredAt),
		}
		if r.Amount != nil {
			amount, _ := r.Amount.Float64()
			records[i].Amount = &amount
		}
	}

	return RecordsResponse{
		Data: RecordsData{
			Module:    string(output.Module),
			Interval:  toIntervalResponse(output.Interval),
			HasAmount: output.HasAmount,
			Records:   records,
		},
		Pagination: PaginationResponse{
			Page:       output.Pagination.Page,
			PageSize:   output.Pagination.PageSize,
			TotalItems: output.Pagination.TotalItems,
			TotalPages: output.Pagination.TotalPages,
			HasNext:    output.Pagination.HasNext,
		},
	}
}
