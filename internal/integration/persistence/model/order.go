// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/internal/domain/entity"
)

// OrderModel represents the orders table in the database.
type OrderModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_tenant_ordered"`
	CustomerID  *uuid.UUID      `gorm:"type:uuid;index"`
	OrderNumber string          `gorm:"type:varchar(50);not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Notes       string          `gorm:"type:text"`
	OrderedAt   time.Time       `gorm:"not null;index:idx_orders_tenant_ordered"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"`

	Customer *CustomerModel `gorm:"foreignKey:CustomerID;references:ID"`
}

// TableName returns the table name for the OrderModel.
func (OrderModel) TableName() string {
	return "orders"
}

// ToEntity converts an OrderModel to a domain Order entity.
func (m *OrderModel) ToEntity() *entity.Order {
	return &entity.Order{
		ID:          m.ID,
		TenantID:    m.TenantID,
		CustomerID:  m.CustomerID,
		OrderNumber: m.OrderNumber,
		Status:      entity.OrderStatus(m.Status),
		TotalAmount: m.TotalAmount,
		Notes:       m.Notes,
		OrderedAt:   m.OrderedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAtPtr(m.DeletedAt),
	}
}

// OrderFromEntity creates an OrderModel from a domain Order entity.
func OrderFromEntity(e *entity.Order) *OrderModel {
	return &OrderModel{
		ID:          e.ID,
		TenantID:    e.TenantID,
		CustomerID:  e.CustomerID,
		OrderNumber: e.OrderNumber,
		Status:      string(e.Status),
		TotalAmount: e.TotalAmount,
		Notes:       e.Notes,
		OrderedAt:   e.OrderedAt.UTC(),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
		DeletedAt:   gormDeletedAt(e.DeletedAt),
	}
}
