// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/config"
	"github.com/crm-suite/backend/internal/application/adapter"
	"github.com/crm-suite/backend/internal/application/usecase/report"
	"github.com/crm-suite/backend/internal/infra/server/router"
	"github.com/crm-suite/backend/internal/integration/adapters"
	"github.com/crm-suite/backend/internal/integration/email"
	"github.com/crm-suite/backend/internal/integration/email/templates"
	"github.com/crm-suite/backend/internal/integration/entrypoint/controller"
	"github.com/crm-suite/backend/internal/integration/entrypoint/middleware"
	"github.com/crm-suite/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Router      *router.Router
	Worker      *email.Worker
	Sender      adapter.EmailSender
	RateLimiter *middleware.RateLimiter
}

// Options overrides collaborators that tests need to control. Zero values
// select the production implementations.
type Options struct {
	Clock       report.Clock
	Sender      adapter.EmailSender
	DBHealth    func() bool
	CacheHealth func() bool
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case rate limiting uses process memory.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts Options) (*Injector, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = report.NewSystemClock(loc)
	}

	defaultLocale, err := language.Parse(cfg.Report.DefaultLocale)
	if err != nil {
		slog.Warn("Invalid default report locale, falling back to Hebrew",
			"locale", cfg.Report.DefaultLocale,
			"error", err,
		)
		defaultLocale = language.Hebrew
	}

	// Create repositories
	reportRepo := persistence.NewReportRepository(db)
	digestRepo := persistence.NewReportDigestRepository(db)

	// Create adapters/services
	tokenVerifier := adapters.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTAudience)

	sender := opts.Sender
	if sender == nil {
		if cfg.Email.ResendAPIKey != "" {
			resendClient, err := email.NewResendClientWithBaseURL(
				cfg.Email.ResendAPIKey,
				cfg.Email.ResendBaseURL,
				cfg.Email.FromName,
				cfg.Email.FromEmail,
			)
			if err != nil {
				return nil, err
			}
			sender = resendClient
		} else {
			slog.Warn("RESEND_API_KEY not set, digests are recorded locally instead of sent")
			sender = email.NewRecordingSender()
		}
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	// Create report use cases
	resolver := report.NewDateRangeResolver(clock)
	summaryUseCase := report.NewGetSummaryUseCase(reportRepo, resolver, report.SummaryOptions{
		MaxParallelQueries: cfg.Report.MaxParallelQueries,
		QueryTimeout:       cfg.Report.QueryTimeout,
	})

	reportController := controller.NewReportController(controller.ReportControllerDeps{
		ResolveRange:      report.NewResolveRangeUseCase(resolver),
		GetSummary:        summaryUseCase,
		GetTrends:         report.NewGetTrendsUseCase(reportRepo, resolver),
		ListPeriodRecords: report.NewListPeriodRecordsUseCase(reportRepo, resolver),
		ScheduleDigest:    report.NewScheduleDigestUseCase(summaryUseCase, digestRepo, clock),
		ListDigests:       report.NewListDigestsUseCase(digestRepo),
		GetDigest:         report.NewGetDigestUseCase(digestRepo),
	}, loc, defaultLocale)

	dbHealth := opts.DBHealth
	if dbHealth == nil {
		dbHealth = func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		}
	}
	healthController := controller.NewHealthController(dbHealth, opts.CacheHealth)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenVerifier)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	worker := email.NewWorker(digestRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	}, clock.Now)

	r := router.NewRouter(healthController, reportController, authMiddleware, rateLimiter)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Router:      r,
		Worker:      worker,
		Sender:      sender,
		RateLimiter: rateLimiter,
	}, nil
}
