// Package error defines domain-specific errors for the CRM reporting backend.
package error

import "errors"

// Authentication domain errors. Sign-in is owned by the hosted auth provider;
// this service only verifies the access tokens it issues.
var (
	// ErrInvalidToken is returned when a token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrTenantNotAssigned is returned when a valid token carries no tenant.
	ErrTenantNotAssigned = errors.New("user is not assigned to a tenant")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Request errors (02XXXX)
	ErrCodeRateLimited AuthErrorCode = "AUTH-020003"

	// Token errors (03XXXX)
	ErrCodeInvalidToken      AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken      AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken      AuthErrorCode = "AUTH-030003"
	ErrCodeTenantNotAssigned AuthErrorCode = "AUTH-030004"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
