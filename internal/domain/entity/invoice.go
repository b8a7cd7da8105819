// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// Invoice represents a bill issued to a customer.
type Invoice struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	CustomerID    *uuid.UUID
	OrderID       *uuid.UUID
	InvoiceNumber string
	Status        InvoiceStatus
	TotalAmount   decimal.Decimal
	IssuedAt      time.Time
	DueAt         *time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// NewInvoice creates a new draft Invoice entity.
func NewInvoice(tenantID uuid.UUID, customerID *uuid.UUID, invoiceNumber string, total decimal.Decimal, issuedAt time.Time) *Invoice {
	now := time.Now().UTC()

	return &Invoice{
		ID:            uuid.New(),
		TenantID:      tenantID,
		CustomerID:    customerID,
		InvoiceNumber: invoiceNumber,
		Status:        InvoiceStatusDraft,
		TotalAmount:   total,
		IssuedAt:      issuedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkPaid records payment of the invoice.
func (i *Invoice) MarkPaid(paidAt time.Time) {
	i.Status = InvoiceStatusPaid
	i.PaidAt = &paidAt
	i.UpdatedAt = time.Now().UTC()
}
