package dependency

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crm-suite/backend/config"
	"github.com/crm-suite/backend/internal/infra/db"
	"github.com/crm-suite/backend/internal/integration/adapters"
	"github.com/crm-suite/backend/internal/integration/email"
)

const testSecret = "injector-test-secret"

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestInjector(t *testing.T) (*Injector, *email.RecordingSender) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(db.Models()...))

	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.JWTAudience = "authenticated"
	cfg.Report.Timezone = "UTC"
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Requests = 100

	sender := email.NewRecordingSender()
	inj, err := NewInjector(cfg, gdb, nil, Options{
		Clock:  fixedClock{now: time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)},
		Sender: sender,
	})
	require.NoError(t, err)
	return inj, sender
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := adapters.SignAccessToken(testSecret, "authenticated", uuid.New(), uuid.New(), "owner@example.com", time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func TestNewInjector_ServesReports(t *testing.T) {
	inj, _ := newTestInjector(t)
	engine := inj.Router.Setup(gin.TestMode)
	auth := bearer(t)

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/api/v1/reports/range?time_range=last_week", http.StatusOK},
		{"/api/v1/reports/summary?time_range=this_month", http.StatusOK},
		{"/api/v1/reports/leads/trends?time_range=this_month", http.StatusOK},
		{"/api/v1/reports/orders/records?time_range=this_month", http.StatusOK},
		{"/api/v1/reports/digests", http.StatusOK},
		{"/api/v1/reports/range?time_range=fortnight", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", auth)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestNewInjector_RequiresToken(t *testing.T) {
	inj, _ := newTestInjector(t)
	engine := inj.Router.Setup(gin.TestMode)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewInjector_DigestIsDelivered(t *testing.T) {
	inj, sender := newTestInjector(t)
	engine := inj.Router.Setup(gin.TestMode)

	body := []byte(`{"time_range":"this_month","recipient_email":"owner@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/digests?lang=en", bytes.NewReader(body))
	req.Header.Set("Authorization", bearer(t))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	inj.Worker.ProcessNow(req.Context())

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@example.com", sent[0].To)
}

func TestNewInjector_InvalidTimezone(t *testing.T) {
	cfg := config.Load()
	cfg.Report.Timezone = "Mars/Olympus"

	_, err := NewInjector(cfg, nil, nil, Options{})
	assert.Error(t, err)
}
