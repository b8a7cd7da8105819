// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/internal/domain/entity"
)

// CustomerModel represents the customers table in the database.
type CustomerModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_customers_tenant_created"`
	Name      string         `gorm:"type:varchar(255);not null"`
	Email     string         `gorm:"type:varchar(255)"`
	Phone     string         `gorm:"type:varchar(50)"`
	Company   string         `gorm:"type:varchar(255)"`
	Status    string         `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt time.Time      `gorm:"not null;index:idx_customers_tenant_created"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the CustomerModel.
func (CustomerModel) TableName() string {
	return "customers"
}

// ToEntity converts a CustomerModel to a domain Customer entity.
func (m *CustomerModel) ToEntity() *entity.Customer {
	return &entity.Customer{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Company:   m.Company,
		Status:    entity.CustomerStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAtPtr(m.DeletedAt),
	}
}

// CustomerFromEntity creates a CustomerModel from a domain Customer entity.
func CustomerFromEntity(e *entity.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        e.ID,
		TenantID:  e.TenantID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Company:   e.Company,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
		DeletedAt: gormDeletedAt(e.DeletedAt),
	}
}
