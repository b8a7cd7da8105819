// Package error defines domain-specific errors for the CRM reporting backend.
package error

import "errors"

// Digest delivery errors.
var (
	// ErrDigestQueueFailed is returned when a digest cannot be queued.
	ErrDigestQueueFailed = errors.New("failed to queue report digest")

	// ErrDigestNotFound is returned when a digest does not exist for the tenant.
	ErrDigestNotFound = errors.New("report digest not found")

	// ErrUnknownTemplate is returned when a digest names a template that is not embedded.
	ErrUnknownTemplate = errors.New("unknown email template")

	// ErrPermanentEmailFailure is returned when the provider rejects a message for good.
	ErrPermanentEmailFailure = errors.New("permanent email failure")

	// ErrTemporaryEmailFailure is returned when a send may succeed on retry.
	ErrTemporaryEmailFailure = errors.New("temporary email failure")
)

// EmailErrorCode defines error codes for digest delivery errors.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeDigestQueueFailed EmailErrorCode = "EMAIL-010001"
	ErrCodeDigestNotFound    EmailErrorCode = "EMAIL-010002"

	// Send errors (02XXXX)
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"

	// Template errors (03XXXX)
	ErrCodeUnknownTemplate EmailErrorCode = "EMAIL-030001"
	ErrCodeRenderFailed    EmailErrorCode = "EMAIL-030002"
)

// EmailError represents a digest delivery error with code and message.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EmailError) Unwrap() error {
	return e.Err
}

// NewEmailError creates a new EmailError with the given code and message.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsPermanent reports whether err is a delivery failure that must not be retried.
func IsPermanent(err error) bool {
	var emailErr *EmailError
	return errors.As(err, &emailErr) && emailErr.Code == ErrCodePermanentEmailFailure
}
