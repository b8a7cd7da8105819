// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the outcome of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a meeting booked with a customer.
type Appointment struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	CustomerID *uuid.UUID
	Title      string
	Location   string
	Status     AppointmentStatus
	StartsAt   time.Time
	EndsAt     time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// NewAppointment creates a new scheduled Appointment entity.
func NewAppointment(tenantID uuid.UUID, customerID *uuid.UUID, title, location string, startsAt, endsAt time.Time) *Appointment {
	now := time.Now().UTC()

	return &Appointment{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CustomerID: customerID,
		Title:      title,
		Location:   location,
		Status:     AppointmentStatusScheduled,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
