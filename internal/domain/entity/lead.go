// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadStatus represents where a lead is in the sales funnel.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead represents a prospective customer captured by a tenant.
type Lead struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	FullName       string
	Email          string
	Phone          string
	Source         string
	Status         LeadStatus
	EstimatedValue decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// NewLead creates a new Lead entity in the "new" status.
func NewLead(tenantID uuid.UUID, fullName, email, phone, source string, estimatedValue decimal.Decimal) *Lead {
	now := time.Now().UTC()

	return &Lead{
		ID:             uuid.New(),
		TenantID:       tenantID,
		FullName:       fullName,
		Email:          email,
		Phone:          phone,
		Source:         source,
		Status:         LeadStatusNew,
		EstimatedValue: estimatedValue,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
