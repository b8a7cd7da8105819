// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/internal/domain/entity"
)

// LeadModel represents the leads table in the database.
type LeadModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_leads_tenant_created"`
	FullName       string          `gorm:"type:varchar(255);not null"`
	Email          string          `gorm:"type:varchar(255)"`
	Phone          string          `gorm:"type:varchar(50)"`
	Source         string          `gorm:"type:varchar(100)"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	EstimatedValue decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null;index:idx_leads_tenant_created"`
	UpdatedAt      time.Time       `gorm:"not null"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for the LeadModel.
func (LeadModel) TableName() string {
	return "leads"
}

// ToEntity converts a LeadModel to a domain Lead entity.
func (m *LeadModel) ToEntity() *entity.Lead {
	return &entity.Lead{
		ID:             m.ID,
		TenantID:       m.TenantID,
		FullName:       m.FullName,
		Email:          m.Email,
		Phone:          m.Phone,
		Source:         m.Source,
		Status:         entity.LeadStatus(m.Status),
		EstimatedValue: m.EstimatedValue,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      deletedAtPtr(m.DeletedAt),
	}
}

// LeadFromEntity creates a LeadModel from a domain Lead entity.
func LeadFromEntity(e *entity.Lead) *LeadModel {
	return &LeadModel{
		ID:             e.ID,
		TenantID:       e.TenantID,
		FullName:       e.FullName,
		Email:          e.Email,
		Phone:          e.Phone,
		Source:         e.Source,
		Status:         string(e.Status),
		EstimatedValue: e.EstimatedValue,
		CreatedAt:      e.CreatedAt.UTC(),
		UpdatedAt:      e.UpdatedAt.UTC(),
		DeletedAt:      gormDeletedAt(e.DeletedAt),
	}
}
