package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/crm-suite/backend/internal/application/usecase/report"
	"github.com/crm-suite/backend/internal/domain/entity"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
	"github.com/crm-suite/backend/internal/integration/entrypoint/dto"
	"github.com/crm-suite/backend/internal/integration/entrypoint/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var controllerNow = time.Date(2025, time.March, 12, 15, 4, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// stubRepository answers every aggregate with the same value.
type stubRepository struct {
	value   decimal.Decimal
	err     error
	records []report.PeriodRecord
}

func (s *stubRepository) Aggregate(context.Context, report.AggregateQuery) (decimal.Decimal, error) {
	return s.value, s.err
}

func (s *stubRepository) Timeline(context.Context, report.TimelineQuery) ([]report.TimelinePoint, error) {
	return []report.TimelinePoint{{OccurredAt: controllerNow, Amount: decimal.NewFromInt(10)}}, s.err
}

func (s *stubRepository) ListRecords(context.Context, report.RecordQuery) ([]report.PeriodRecord, int64, error) {
	return s.records, int64(len(s.records)), s.err
}

type memoryQueue struct {
	mu      sync.Mutex
	digests []*entity.ReportDigest
}

func (q *memoryQueue) Create(_ context.Context, d *entity.ReportDigest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.digests = append(q.digests, d)
	return nil
}

func (q *memoryQueue) GetDue(context.Context, time.Time, int) ([]*entity.ReportDigest, error) {
	return nil, nil
}

func (q *memoryQueue) Update(context.Context, *entity.ReportDigest) error { return nil }

func (q *memoryQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.ReportDigest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, d := range q.digests {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, domainerror.ErrDigestNotFound
}

func (q *memoryQueue) ListByTenant(_ context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReportDigest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.ReportDigest
	for _, d := range q.digests {
		if d.TenantID == tenantID && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func newReportRouter(repo report.ReportRepository, queue *memoryQueue, tenantID uuid.UUID) *gin.Engine {
	clock := fixedClock{now: controllerNow}
	resolver := report.NewDateRangeResolver(clock)
	summary := report.NewGetSummaryUseCase(repo, resolver, report.SummaryOptions{MaxParallelQueries: 4})

	ctrl := NewReportController(ReportControllerDeps{
		ResolveRange:      report.NewResolveRangeUseCase(resolver),
		GetSummary:        summary,
		GetTrends:         report.NewGetTrendsUseCase(repo, resolver),
		ListPeriodRecords: report.NewListPeriodRecordsUseCase(repo, resolver),
		ScheduleDigest:    report.NewScheduleDigestUseCase(summary, queue, clock),
		ListDigests:       report.NewListDigestsUseCase(queue),
		GetDigest:         report.NewGetDigestUseCase(queue),
	}, time.UTC, language.Hebrew)

	r := gin.New()
	reports := r.Group("/reports", func(c *gin.Context) {
		if tenantID != uuid.Nil {
			c.Set(string(middleware.TenantIDKey), tenantID)
			c.Set(string(middleware.UserIDKey), uuid.New())
		}
		c.Next()
	})
	reports.GET("/range", ctrl.GetRange)
	reports.GET("/summary", ctrl.GetSummary)
	reports.GET("/:module/trends", ctrl.GetTrends)
	reports.GET("/:module/records", ctrl.GetRecords)
	reports.POST("/digests", ctrl.ScheduleDigest)
	reports.GET("/digests", ctrl.ListDigests)
	reports.GET("/digests/:id", ctrl.GetDigest)
	return r
}

func do(r http.Handler, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestReportController_GetRange(t *testing.T) {
	r := newReportRouter(&stubRepository{}, &memoryQueue{}, uuid.New())

	w := do(r, http.MethodGet, "/reports/range?time_range=this_month", nil, map[string]string{"Accept-Language": "en-US"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RangeResponse
	decode(t, w, &resp)
	assert.Equal(t, "this_month", resp.Data.TimeRange)
	assert.Equal(t, "This month", resp.Data.Label)
	assert.Equal(t, "2025-03-01T00:00:00.000Z", resp.Data.Current.From)
	assert.Equal(t, "2025-03-12T23:59:59.999Z", resp.Data.Current.To)
	assert.Equal(t, "day", resp.Data.Granularity)
}

func TestReportController_CustomRange(t *testing.T) {
	r := newReportRouter(&stubRepository{}, &memoryQueue{}, uuid.New())

	w := do(r, http.MethodGet, "/reports/range?time_range=custom&from=2025-02-01&to=2025-02-10", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RangeResponse
	decode(t, w, &resp)
	assert.Equal(t, "2025-02-01T00:00:00.000Z", resp.Data.Current.From)
	assert.Equal(t, "2025-02-10T23:59:59.999Z", resp.Data.Current.To)
}

func TestReportController_ValidationErrors(t *testing.T) {
	r := newReportRouter(&stubRepository{}, &memoryQueue{}, uuid.New())

	tests := []struct {
		path string
		code domainerror.ReportErrorCode
	}{
		{"/reports/range?time_range=fortnight", domainerror.ErrCodeInvalidTimeRange},
		{"/reports/range?time_range=custom", domainerror.ErrCodeMissingRange},
		{"/reports/range?time_range=custom&from=2025-03-10&to=2025-03-01", domainerror.ErrCodeInvalidDateRange},
		{"/reports/range?time_range=custom&from=10/03/2025&to=2025-03-11", domainerror.ErrCodeInvalidDateFormat},
		{"/reports/tickets/trends?time_range=today", domainerror.ErrCodeInvalidModule},
		{"/reports/leads/trends?time_range=today&granularity=hour", domainerror.ErrCodeInvalidGranularity},
		{"/reports/leads/records?time_range=today&page=abc", domainerror.ErrCodeInvalidPagination},
		{"/reports/leads/records?time_range=today&page=9223372036854775807&page_size=100", domainerror.ErrCodeInvalidPagination},
		{"/reports/leads/trends?time_range=custom&from=0001-01-01&to=9999-12-31&granularity=day", domainerror.ErrCodeSeriesTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, string(tt.code), resp.Code)
		})
	}
}

func TestReportController_ScheduleDigestMalformedBody(t *testing.T) {
	queue := &memoryQueue{}
	r := newReportRouter(&stubRepository{}, queue, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/reports/digests", bytes.NewBufferString(`{"time_range": "today", "recipient_email"`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, string(domainerror.ErrCodeInvalidRequestBody), resp.Code)
	assert.Equal(t, "Invalid request body", resp.Error)
	assert.Empty(t, queue.digests)
}

func TestReportController_GetSummary(t *testing.T) {
	r := newReportRouter(&stubRepository{value: decimal.NewFromInt(5)}, &memoryQueue{}, uuid.New())

	w := do(r, http.MethodGet, "/reports/summary?time_range=last_week", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SummaryResponse
	decode(t, w, &resp)
	require.Len(t, resp.Data.Metrics, len(report.MetricCatalog))
	assert.Equal(t, "new_leads", resp.Data.Metrics[0].Key)
	assert.Equal(t, "לידים חדשים", resp.Data.Metrics[0].Label)
	assert.Equal(t, 5.0, resp.Data.Metrics[0].Value)
	assert.Equal(t, 0.0, resp.Data.Metrics[0].PercentChange)
	assert.Equal(t, "2025-03-03T00:00:00.000Z", resp.Data.Current.From)
	assert.Equal(t, "2025-02-24T00:00:00.001Z", resp.Data.Previous.From)
}

func TestReportController_SummaryFailure(t *testing.T) {
	r := newReportRouter(&stubRepository{err: errors.New("db down")}, &memoryQueue{}, uuid.New())

	w := do(r, http.MethodGet, "/reports/summary?time_range=today", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, string(domainerror.ErrCodeReportQueryFailed), resp.Code)
}

func TestReportController_RequiresTenant(t *testing.T) {
	r := newReportRouter(&stubRepository{}, &memoryQueue{}, uuid.Nil)

	w := do(r, http.MethodGet, "/reports/summary?time_range=today", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportController_GetTrendsAndRecords(t *testing.T) {
	amount := decimal.NewFromInt(42)
	repo := &stubRepository{records: []report.PeriodRecord{{
		ID: uuid.New(), Title: "SO-1", Status: "confirmed", Amount: &amount, OccurredAt: controllerNow,
	}}}
	r := newReportRouter(repo, &memoryQueue{}, uuid.New())

	w := do(r, http.MethodGet, "/reports/orders/trends?time_range=today", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trends dto.TrendsResponse
	decode(t, w, &trends)
	require.Len(t, trends.Data.Points, 1)
	assert.Equal(t, 1, trends.Data.TotalCount)
	assert.Equal(t, 10.0, trends.Data.TotalAmount)

	w = do(r, http.MethodGet, "/reports/orders/records?time_range=today&page=1&page_size=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records dto.RecordsResponse
	decode(t, w, &records)
	require.Len(t, records.Data.Records, 1)
	require.NotNil(t, records.Data.Records[0].Amount)
	assert.Equal(t, 42.0, *records.Data.Records[0].Amount)
	assert.Equal(t, 5, records.Pagination.PageSize)
}

func TestReportController_Digests(t *testing.T) {
	tenantID := uuid.New()
	queue := &memoryQueue{}
	r := newReportRouter(&stubRepository{value: decimal.NewFromInt(3)}, queue, tenantID)

	w := do(r, http.MethodPost, "/reports/digests?lang=en", dto.ScheduleDigestRequest{
		TimeRange:      "this_month",
		RecipientEmail: "owner@example.com",
	}, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var created dto.DigestEnvelope
	decode(t, w, &created)
	assert.Equal(t, "pending", created.Data.Status)
	assert.Equal(t, "en", created.Data.Snapshot.Locale)
	require.Len(t, queue.digests, 1)

	w = do(r, http.MethodGet, "/reports/digests", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.DigestListResponse
	decode(t, w, &list)
	assert.Len(t, list.Data, 1)

	w = do(r, http.MethodGet, "/reports/digests/"+created.Data.ID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/reports/digests/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/reports/digests/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/reports/digests", dto.ScheduleDigestRequest{
		TimeRange:      "this_month",
		RecipientEmail: "nope",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/reports/digests", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
