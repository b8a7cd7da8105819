package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/crm-suite/backend/internal/integration/adapters"
)

// registerSetupSteps registers clock, configuration and identity steps.
func registerSetupSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the reporting timezone is "([^"]*)"$`, theReportingTimezoneIs)
	ctx.Step(`^the current time is "([^"]*)"$`, theCurrentTimeIs)
	ctx.Step(`^(\d+) minutes? pass(?:es)?$`, minutesPass)
	ctx.Step(`^the rate limit is (\d+) requests? per minute$`, theRateLimitIs)
	ctx.Step(`^I am authenticated for tenant "([^"]*)"$`, iAmAuthenticatedForTenant)
	ctx.Step(`^I am authenticated without a tenant$`, iAmAuthenticatedWithoutATenant)
	ctx.Step(`^I am authenticated with an expired token for tenant "([^"]*)"$`, iAmAuthenticatedWithAnExpiredToken)
}

func theReportingTimezoneIs(ctx context.Context, zone string) error {
	tc := GetTestContext(ctx)
	if err := tc.serverStarted(); err != nil {
		return err
	}
	tc.cfg.Report.Timezone = zone
	loc, err := tc.cfg.Report.Location()
	if err != nil {
		return err
	}
	tc.clock.SetCurrentTime(tc.clock.Now().In(loc))
	return nil
}

func theCurrentTimeIs(ctx context.Context, raw string) error {
	tc := GetTestContext(ctx)
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", raw, err)
	}
	tc.clock.SetCurrentTime(now.In(tc.location()))
	return nil
}

func minutesPass(ctx context.Context, minutes int) error {
	GetTestContext(ctx).clock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

func theRateLimitIs(ctx context.Context, requests int) error {
	tc := GetTestContext(ctx)
	if err := tc.serverStarted(); err != nil {
		return err
	}
	tc.cfg.RateLimit.Requests = requests
	tc.cfg.RateLimit.Window = time.Minute
	return nil
}

func sign(tc *TestContext, tenantID uuid.UUID, issuedAt time.Time) (string, error) {
	return adapters.SignAccessToken(
		testJWTSecret,
		testJWTAudience,
		tc.userID,
		tenantID,
		"owner@example.com",
		time.Hour,
		issuedAt,
	)
}

func iAmAuthenticatedForTenant(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	token, err := sign(tc, tc.tenant(name), time.Now())
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

func iAmAuthenticatedWithoutATenant(ctx context.Context) error {
	tc := GetTestContext(ctx)
	token, err := sign(tc, uuid.Nil, time.Now())
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

func iAmAuthenticatedWithAnExpiredToken(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	token, err := sign(tc, tc.tenant(name), time.Now().Add(-2*time.Hour))
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}
