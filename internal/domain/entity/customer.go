// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CustomerStatus represents whether a customer is still served.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer represents a tenant's customer.
type Customer struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Email     string
	Phone     string
	Company   string
	Status    CustomerStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewCustomer creates a new active Customer entity.
func NewCustomer(tenantID uuid.UUID, name, email, phone, company string) *Customer {
	now := time.Now().UTC()

	return &Customer{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Company:   company,
		Status:    CustomerStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
