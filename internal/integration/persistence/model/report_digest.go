// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crm-suite/backend/internal/domain/entity"
)

// ReportDigestModel represents the report_digests table in the database.
type ReportDigestModel struct {
	ID                uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantID          uuid.UUID    `gorm:"type:uuid;not null;index:idx_report_digests_tenant_created"`
	RequestedBy       uuid.UUID    `gorm:"type:uuid"`
	Template          string       `gorm:"type:varchar(50);not null"`
	RecipientEmail    string       `gorm:"type:varchar(255);not null"`
	RecipientName     string       `gorm:"type:varchar(255)"`
	Subject           string       `gorm:"type:varchar(500);not null"`
	Snapshot          string       `gorm:"type:jsonb;not null;default:'{}'"`
	Status            string       `gorm:"type:varchar(20);not null;default:'pending';index:idx_report_digests_due"`
	Attempts          int          `gorm:"not null;default:0"`
	MaxAttempts       int          `gorm:"not null;default:3"`
	LastError         string       `gorm:"type:text"`
	ProviderMessageID string       `gorm:"type:varchar(100)"`
	CreatedAt         time.Time    `gorm:"not null;index:idx_report_digests_tenant_created"`
	ScheduledAt       time.Time    `gorm:"not null;index:idx_report_digests_due"`
	ProcessedAt       *time.Time
}

// TableName returns the table name for the ReportDigestModel.
func (ReportDigestModel) TableName() string {
	return "report_digests"
}

// ToEntity converts a ReportDigestModel to a domain ReportDigest entity.
func (m *ReportDigestModel) ToEntity() *entity.ReportDigest {
	var snapshot entity.DigestSnapshot
	if m.Snapshot != "" {
		if err := json.Unmarshal([]byte(m.Snapshot), &snapshot); err != nil {
			slog.Warn("Failed to unmarshal digest snapshot", "error", err, "id", m.ID)
		}
	}

	return &entity.ReportDigest{
		ID:                m.ID,
		TenantID:          m.TenantID,
		RequestedBy:       m.RequestedBy,
		Template:          entity.DigestTemplate(m.Template),
		RecipientEmail:    m.RecipientEmail,
		RecipientName:     m.RecipientName,
		Subject:           m.Subject,
		Snapshot:          snapshot,
		Status:            entity.DigestStatus(m.Status),
		Attempts:          m.Attempts,
		MaxAttempts:       m.MaxAttempts,
		LastError:         m.LastError,
		ProviderMessageID: m.ProviderMessageID,
		CreatedAt:         m.CreatedAt,
		ScheduledAt:       m.ScheduledAt,
		ProcessedAt:       m.ProcessedAt,
	}
}

// ReportDigestModelFromEntity creates a ReportDigestModel from a domain ReportDigest entity.
func ReportDigestModelFromEntity(digest *entity.ReportDigest) *ReportDigestModel {
	snapshotJSON, err := json.Marshal(digest.Snapshot)
	if err != nil {
		slog.Error("Failed to marshal digest snapshot", "error", err, "digest_id", digest.ID)
		snapshotJSON = []byte("{}")
	}

	return &ReportDigestModel{
		ID:                digest.ID,
		TenantID:          digest.TenantID,
		RequestedBy:       digest.RequestedBy,
		Template:          string(digest.Template),
		RecipientEmail:    digest.RecipientEmail,
		RecipientName:     digest.RecipientName,
		Subject:           digest.Subject,
		Snapshot:          string(snapshotJSON),
		Status:            string(digest.Status),
		Attempts:          digest.Attempts,
		MaxAttempts:       digest.MaxAttempts,
		LastError:         digest.LastError,
		ProviderMessageID: digest.ProviderMessageID,
		CreatedAt:         digest.CreatedAt.UTC(),
		ScheduledAt:       digest.ScheduledAt.UTC(),
		ProcessedAt:       utcPtr(digest.ProcessedAt),
	}
}
