package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// registerEmailSteps registers digest delivery steps.
func registerEmailSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the email provider rejects messages with status (\d+) and message "([^"]*)"$`, theEmailProviderRejects)
	ctx.Step(`^the email provider accepts messages$`, theEmailProviderAccepts)
	ctx.Step(`^the email worker runs$`, theEmailWorkerRuns)
	ctx.Step(`^the email provider should have received (\d+) emails?$`, theEmailProviderShouldHaveReceived)
	ctx.Step(`^the last email should be addressed to "([^"]*)"$`, theLastEmailShouldBeAddressedTo)
	ctx.Step(`^the last email subject should contain "([^"]*)"$`, theLastEmailSubjectShouldContain)
	ctx.Step(`^the last email should carry tag "([^"]*)"$`, theLastEmailShouldCarryTag)
}

func theEmailProviderRejects(_ context.Context, status int, message string) error {
	resendMock.SetResponse(-1, "POST", "/emails", status, map[string]any{
		"statusCode": status,
		"name":       "error",
		"message":    message,
	})
	return nil
}

func theEmailProviderAccepts(_ context.Context) error {
	resendMock.SetResponse(-1, "POST", "/emails", 200, map[string]any{"id": "re_msg_default"})
	return nil
}

func theEmailWorkerRuns(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if err := tc.ensureServer(); err != nil {
		return err
	}
	tc.injector.Worker.ProcessNow(ctx)
	return nil
}

func theEmailProviderShouldHaveReceived(_ context.Context, expected int) error {
	got := len(resendMock.GetRequests("POST", "/emails"))
	if got != expected {
		return fmt.Errorf("expected %d emails, got %d", expected, got)
	}
	return nil
}

func lastEmail() (map[string]any, error) {
	requests := resendMock.GetRequests("POST", "/emails")
	if len(requests) == 0 {
		return nil, fmt.Errorf("no email was sent")
	}
	return requests[len(requests)-1].Body, nil
}

func theLastEmailShouldBeAddressedTo(_ context.Context, expected string) error {
	email, err := lastEmail()
	if err != nil {
		return err
	}
	to, _ := email["to"].([]any)
	if len(to) != 1 || to[0] != expected {
		return fmt.Errorf("expected recipient %q, got %v", expected, email["to"])
	}
	return nil
}

func theLastEmailSubjectShouldContain(_ context.Context, expected string) error {
	email, err := lastEmail()
	if err != nil {
		return err
	}
	subject, _ := email["subject"].(string)
	if !strings.Contains(subject, expected) {
		return fmt.Errorf("subject %q does not contain %q", subject, expected)
	}
	return nil
}

func theLastEmailShouldCarryTag(_ context.Context, name string) error {
	email, err := lastEmail()
	if err != nil {
		return err
	}
	tags, _ := email["tags"].([]any)
	for _, t := range tags {
		if tag, ok := t.(map[string]any); ok && tag["name"] == name {
			return nil
		}
	}
	return fmt.Errorf("tag %q not found in %v", name, email["tags"])
}
