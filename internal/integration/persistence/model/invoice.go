// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/internal/domain/entity"
)

// InvoiceModel represents the invoices table in the database.
type InvoiceModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoices_tenant_issued"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IssuedAt      time.Time       `gorm:"not null;index:idx_invoices_tenant_issued"`
	DueAt         *time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the InvoiceModel.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToEntity converts an InvoiceModel to a domain Invoice entity.
func (m *InvoiceModel) ToEntity() *entity.Invoice {
	return &entity.Invoice{
		ID:            m.ID,
		TenantID:      m.TenantID,
		CustomerID:    m.CustomerID,
		OrderID:       m.OrderID,
		InvoiceNumber: m.InvoiceNumber,
		Status:        entity.InvoiceStatus(m.Status),
		TotalAmount:   m.TotalAmount,
		IssuedAt:      m.IssuedAt,
		DueAt:         m.DueAt,
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		DeletedAt:     deletedAtPtr(m.DeletedAt),
	}
}

// InvoiceFromEntity creates an InvoiceModel from a domain Invoice entity.
func InvoiceFromEntity(e *entity.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:            e.ID,
		TenantID:      e.TenantID,
		CustomerID:    e.CustomerID,
		OrderID:       e.OrderID,
		InvoiceNumber: e.InvoiceNumber,
		Status:        string(e.Status),
		TotalAmount:   e.TotalAmount,
		IssuedAt:      e.IssuedAt.UTC(),
		DueAt:         utcPtr(e.DueAt),
		PaidAt:        utcPtr(e.PaidAt),
		CreatedAt:     e.CreatedAt.UTC(),
		UpdatedAt:     e.UpdatedAt.UTC(),
		DeletedAt:     gormDeletedAt(e.DeletedAt),
	}
}
