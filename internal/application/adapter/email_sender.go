// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
	// Tags are attached to the message for provider-side filtering.
	Tags map[string]string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	MessageID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send hands one email to the provider.
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}
