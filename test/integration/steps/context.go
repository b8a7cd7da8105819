// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crm-suite/backend/config"
	"github.com/crm-suite/backend/internal/infra/db"
	"github.com/crm-suite/backend/internal/infra/dependency"
	"github.com/crm-suite/backend/test/integration/mock"
)

const (
	testJWTSecret    = "test-jwt-secret-key-for-testing-purposes"
	testJWTAudience  = "authenticated"
	testResendAPIKey = "re_test_key"
)

// resendMock is shared by the whole run; scenarios reset it.
var resendMock *mock.ApiMock

// TestContext holds the test state for each scenario.
type TestContext struct {
	cfg      *config.Config
	clock    *mock.Time
	db       *mock.Db
	redis    *mock.Redis
	injector *dependency.Injector
	server   *httptest.Server

	// Request building
	requestHeaders map[string]string
	accessToken    string
	userID         uuid.UUID

	// Response
	status       int
	responseBody []byte
	lastID       string

	tenants map[string]uuid.UUID
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		resendMock = mock.NewApiServer()
		resendMock.Start()
	})

	ctx.AfterSuite(func() {
		resendMock.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc := GetTestContext(ctx); tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerSetupSteps(ctx)
	registerDataSteps(ctx)
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerEmailSteps(ctx)
}

func newTestContext() (*TestContext, error) {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Auth.JWTSecret = testJWTSecret
	cfg.Auth.JWTAudience = testJWTAudience
	cfg.Report.Timezone = "Asia/Jerusalem"
	cfg.Report.DefaultLocale = "he"
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Requests = 1000
	cfg.RateLimit.Window = time.Minute
	cfg.Email.ResendAPIKey = testResendAPIKey
	cfg.Email.ResendBaseURL = resendMock.GetUrl()

	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, err
	}

	tc := &TestContext{
		cfg:            cfg,
		clock:          mock.NewTime(time.Date(2025, time.March, 12, 10, 0, 0, 0, loc)),
		db:             mock.NewDb(db.Models()...),
		redis:          mock.NewRedis(),
		requestHeaders: map[string]string{},
		userID:         uuid.New(),
		tenants:        map[string]uuid.UUID{},
	}

	if err := tc.db.Reset(); err != nil {
		return nil, err
	}
	tc.redis.Clear()
	resendMock.Reset()
	resendMock.SetResponse(-1, "POST", "/emails", 200, map[string]any{"id": "re_msg_default"})

	return tc, nil
}

// ensureServer wires the application on first use so setup steps can still
// change the configuration.
func (tc *TestContext) ensureServer() error {
	if tc.server != nil {
		return nil
	}

	injector, err := dependency.NewInjector(tc.cfg, tc.db.DbConn, tc.redis.Client, dependency.Options{
		Clock:       tc.clock,
		DBHealth:    func() bool { return true },
		CacheHealth: func() bool { return tc.redis.Client.Ping(context.Background()).Err() == nil },
	})
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}

	tc.injector = injector
	tc.server = httptest.NewServer(injector.Router.Setup(tc.cfg.Server.Environment))
	return nil
}

// tenant returns the id registered for name, creating one on first use.
func (tc *TestContext) tenant(name string) uuid.UUID {
	if id, ok := tc.tenants[name]; ok {
		return id
	}
	id := uuid.New()
	tc.tenants[name] = id
	return id
}

func (tc *TestContext) location() *time.Location {
	loc, err := tc.cfg.Report.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

func (tc *TestContext) serverStarted() error {
	if tc.server != nil {
		return fmt.Errorf("configuration must change before the first request")
	}
	return nil
}
