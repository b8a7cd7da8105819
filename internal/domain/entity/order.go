// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a sale placed by a customer.
type Order struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	CustomerID  *uuid.UUID
	OrderNumber string
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Notes       string
	OrderedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewOrder creates a new pending Order entity.
func NewOrder(tenantID uuid.UUID, customerID *uuid.UUID, orderNumber string, total decimal.Decimal, orderedAt time.Time) *Order {
	now := time.Now().UTC()

	return &Order{
		ID:          uuid.New(),
		TenantID:    tenantID,
		CustomerID:  customerID,
		OrderNumber: orderNumber,
		Status:      OrderStatusPending,
		TotalAmount: total,
		OrderedAt:   orderedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
