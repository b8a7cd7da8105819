package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crm-suite/backend/internal/application/adapter"
	"github.com/crm-suite/backend/internal/domain/entity"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

const maxDigestListLimit = 100

// ListDigestsUseCase lists a tenant's recent digests with their delivery status.
type ListDigestsUseCase struct {
	queue adapter.DigestQueueRepository
}

// NewListDigestsUseCase creates a new ListDigestsUseCase instance.
func NewListDigestsUseCase(queue adapter.DigestQueueRepository) *ListDigestsUseCase {
	return &ListDigestsUseCase{queue: queue}
}

// Execute returns up to limit digests, newest first. limit is clamped to 1..100.
func (uc *ListDigestsUseCase) Execute(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReportDigest, error) {
	if tenantID == uuid.Nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeMissingTenant,
			domainerror.ErrMissingTenant.Error(),
			domainerror.ErrMissingTenant,
		)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > maxDigestListLimit {
		limit = maxDigestListLimit
	}

	digests, err := uc.queue.ListByTenant(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list digests: %w", err)
	}
	return digests, nil
}

// GetDigestUseCase fetches one digest of a tenant.
type GetDigestUseCase struct {
	queue adapter.DigestQueueRepository
}

// NewGetDigestUseCase creates a new GetDigestUseCase instance.
func NewGetDigestUseCase(queue adapter.DigestQueueRepository) *GetDigestUseCase {
	return &GetDigestUseCase{queue: queue}
}

// Execute returns the digest. A digest of another tenant is reported as not found.
func (uc *GetDigestUseCase) Execute(ctx context.Context, tenantID, digestID uuid.UUID) (*entity.ReportDigest, error) {
	digest, err := uc.queue.GetByID(ctx, digestID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDigestNotFound) {
			return nil, domainerror.NewEmailError(
				domainerror.ErrCodeDigestNotFound,
				"digest not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to get digest: %w", err)
	}

	if digest.TenantID != tenantID {
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeDigestNotFound,
			"digest not found",
			domainerror.ErrDigestNotFound,
		)
	}

	return digest, nil
}
