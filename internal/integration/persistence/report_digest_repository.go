// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/internal/application/adapter"
	"github.com/crm-suite/backend/internal/domain/entity"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
	"github.com/crm-suite/backend/internal/integration/persistence/model"
)

// reportDigestRepository implements the adapter.DigestQueueRepository interface.
type reportDigestRepository struct {
	db *gorm.DB
}

// NewReportDigestRepository creates a new digest queue repository instance.
func NewReportDigestRepository(db *gorm.DB) adapter.DigestQueueRepository {
	return &reportDigestRepository{
		db: db,
	}
}

// Create adds a new digest to the queue.
func (r *reportDigestRepository) Create(ctx context.Context, digest *entity.ReportDigest) error {
	digestModel := model.ReportDigestModelFromEntity(digest)
	return r.db.WithContext(ctx).Create(digestModel).Error
}

// GetDue retrieves pending digests whose schedule has passed, oldest first.
func (r *reportDigestRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*entity.ReportDigest, error) {
	var models []model.ReportDigestModel

	result := r.db.WithContext(ctx).
		Where("status = ?", entity.DigestStatusPending).
		Where("scheduled_at <= ?", now.UTC()).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	return toDigestEntities(models), nil
}

// Update saves changes to a digest.
func (r *reportDigestRepository) Update(ctx context.Context, digest *entity.ReportDigest) error {
	digestModel := model.ReportDigestModelFromEntity(digest)
	return r.db.WithContext(ctx).Save(digestModel).Error
}

// GetByID retrieves a specific digest by its ID.
func (r *reportDigestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReportDigest, error) {
	var digestModel model.ReportDigestModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&digestModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDigestNotFound
		}
		return nil, result.Error
	}
	return digestModel.ToEntity(), nil
}

// ListByTenant retrieves the newest digests of a tenant.
func (r *reportDigestRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*entity.ReportDigest, error) {
	var models []model.ReportDigestModel
	result := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	return toDigestEntities(models), nil
}

func toDigestEntities(models []model.ReportDigestModel) []*entity.ReportDigest {
	digests := make([]*entity.ReportDigest, len(models))
	for i := range models {
		digests[i] = models[i].ToEntity()
	}
	return digests
}
