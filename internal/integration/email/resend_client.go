// Package email provides email sending functionality via Resend.
package email

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/crm-suite/backend/internal/application/adapter"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

// ResendClient implements the adapter.EmailSender interface using Resend.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NewResendClientWithBaseURL creates a Resend client that talks to baseURL
// instead of the public API. An empty baseURL keeps the default.
func NewResendClientWithBaseURL(apiKey, baseURL, fromName, fromEmail string) (*ResendClient, error) {
	c := NewResendClient(apiKey, fromName, fromEmail)
	if baseURL == "" {
		return c, nil
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	c.client.BaseURL = u
	return c, nil
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{formatRecipient(input.Name, input.To)},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
		Tags:    toResendTags(input.Tags),
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		if isPermanentError(err) {
			return nil, domainerror.NewEmailError(
				domainerror.ErrCodePermanentEmailFailure,
				"permanent email failure",
				fmt.Errorf("%w: %w", domainerror.ErrPermanentEmailFailure, err),
			)
		}
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeTemporaryEmailFailure,
			"temporary email failure",
			fmt.Errorf("%w: %w", domainerror.ErrTemporaryEmailFailure, err),
		)
	}

	return &adapter.SendEmailResult{
		MessageID: resp.Id,
	}, nil
}

func formatRecipient(name, address string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// toResendTags converts tags to the provider format in a stable order.
func toResendTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]resend.Tag, len(names))
	for i, name := range names {
		out[i] = resend.Tag{Name: name, Value: tags[name]}
	}
	return out
}

// isPermanentError checks if the error is a permanent error that should not be retried.
// Permanent errors include: 401 (Unauthorized), 403 (Forbidden), 422 (Validation Error)
// Temporary errors include: 429 (Rate Limit), 5xx (Server Errors)
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	permanentPatterns := []string{
		"401",
		"403",
		"422",
		"unauthorized",
		"forbidden",
		"validation",
		"invalid",
		"bad request",
	}

	for _, pattern := range permanentPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

var _ adapter.EmailSender = (*ResendClient)(nil)
