// Package error defines domain-specific errors for the CRM reporting backend.
package error

import "errors"

// Report domain errors.
var (
	// ErrMissingRange is returned when a custom range lacks its from or to bound.
	ErrMissingRange = errors.New("custom time range requires both from and to")

	// ErrInvalidTimeRange is returned when the time range selector is not recognized.
	ErrInvalidTimeRange = errors.New("time_range must be one of: today, yesterday, this_week, last_week, this_month, last_month, this_quarter, last_quarter, this_year, last_year, custom")

	// ErrInvalidDateRange is returned when to is before from.
	ErrInvalidDateRange = errors.New("to must not be before from")

	// ErrInvalidDateFormat is returned when a date bound cannot be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD or RFC3339")

	// ErrInvalidModule is returned when the requested CRM module is not reportable.
	ErrInvalidModule = errors.New("module must be one of: leads, customers, orders, invoices, appointments")

	// ErrInvalidGranularity is returned when granularity is not valid.
	ErrInvalidGranularity = errors.New("granularity must be: day, week, or month")

	// ErrInvalidPagination is returned when page or page_size are out of bounds.
	ErrInvalidPagination = errors.New("page must be >= 1 and page_size between 1 and 100")

	// ErrMissingTenant is returned when a report is requested without a tenant scope.
	ErrMissingTenant = errors.New("tenant is required")

	// ErrInvalidRecipient is returned when a digest has no usable recipient address.
	ErrInvalidRecipient = errors.New("recipient_email must be a valid email address")

	// ErrSeriesTooLong is returned when a trend series would exceed the bucket cap.
	ErrSeriesTooLong = errors.New("trend series exceeds 1000 buckets, narrow the range or use a coarser granularity")

	// ErrInvalidRequestBody is returned when a request body cannot be decoded.
	ErrInvalidRequestBody = errors.New("invalid request body")

	// ErrReportQueryFailed is returned when any aggregate query of a report fails.
	ErrReportQueryFailed = errors.New("report query failed")
)

// ReportErrorCode defines error codes for report errors.
// Format: RPT-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMissingRange       ReportErrorCode = "RPT-010001"
	ErrCodeInvalidTimeRange   ReportErrorCode = "RPT-010002"
	ErrCodeInvalidDateRange   ReportErrorCode = "RPT-010003"
	ErrCodeInvalidDateFormat  ReportErrorCode = "RPT-010004"
	ErrCodeInvalidModule      ReportErrorCode = "RPT-010005"
	ErrCodeInvalidGranularity ReportErrorCode = "RPT-010006"
	ErrCodeInvalidPagination  ReportErrorCode = "RPT-010007"
	ErrCodeMissingTenant      ReportErrorCode = "RPT-010008"
	ErrCodeInvalidRecipient   ReportErrorCode = "RPT-010009"
	ErrCodeSeriesTooLong      ReportErrorCode = "RPT-010010"
	ErrCodeInvalidRequestBody ReportErrorCode = "RPT-010011"

	// Internal errors (99XXXX)
	ErrCodeReportQueryFailed   ReportErrorCode = "RPT-990001"
	ErrCodeReportInternalError ReportErrorCode = "RPT-990002"
)

// ReportError represents a report error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsValidation reports whether the code belongs to the validation category.
func (c ReportErrorCode) IsValidation() bool {
	return len(c) >= 6 && c[4:6] == "01"
}
