package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/crm-suite/backend/internal/application/adapter"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

// RecordingSender keeps sent emails in memory. It backs local runs without a
// provider key and the test suites.
type RecordingSender struct {
	mu          sync.Mutex
	sent        []adapter.SendEmailInput
	failErr     error
	isPermanent bool
}

// NewRecordingSender creates a new in-memory sender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

// Send implements the adapter.EmailSender interface.
func (s *RecordingSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		if s.isPermanent {
			return nil, domainerror.NewEmailError(
				domainerror.ErrCodePermanentEmailFailure,
				"permanent email failure",
				fmt.Errorf("%w: %w", domainerror.ErrPermanentEmailFailure, s.failErr),
			)
		}
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeTemporaryEmailFailure,
			"temporary email failure",
			fmt.Errorf("%w: %w", domainerror.ErrTemporaryEmailFailure, s.failErr),
		)
	}

	s.sent = append(s.sent, input)
	return &adapter.SendEmailResult{
		MessageID: fmt.Sprintf("local-%d", len(s.sent)),
	}, nil
}

// Sent returns a copy of the emails sent so far.
func (s *RecordingSender) Sent() []adapter.SendEmailInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]adapter.SendEmailInput, len(s.sent))
	copy(out, s.sent)
	return out
}

// SetFailure makes every following Send fail with err.
func (s *RecordingSender) SetFailure(err error, permanent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
	s.isPermanent = permanent
}

// Reset clears sent emails and the failure configuration.
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.failErr = nil
	s.isPermanent = false
}

var _ adapter.EmailSender = (*RecordingSender)(nil)
