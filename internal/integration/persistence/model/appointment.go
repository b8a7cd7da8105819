// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crm-suite/backend/internal/domain/entity"
)

// AppointmentModel represents the appointments table in the database.
type AppointmentModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_appointments_tenant_starts"`
	CustomerID *uuid.UUID     `gorm:"type:uuid;index"`
	Title      string         `gorm:"type:varchar(255);not null"`
	Location   string         `gorm:"type:varchar(255)"`
	Status     string         `gorm:"type:varchar(20);not null;index"`
	StartsAt   time.Time      `gorm:"not null;index:idx_appointments_tenant_starts"`
	EndsAt     time.Time      `gorm:"not null"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the AppointmentModel.
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToEntity converts an AppointmentModel to a domain Appointment entity.
func (m *AppointmentModel) ToEntity() *entity.Appointment {
	return &entity.Appointment{
		ID:         m.ID,
		TenantID:   m.TenantID,
		CustomerID: m.CustomerID,
		Title:      m.Title,
		Location:   m.Location,
		Status:     entity.AppointmentStatus(m.Status),
		StartsAt:   m.StartsAt,
		EndsAt:     m.EndsAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		DeletedAt:  deletedAtPtr(m.DeletedAt),
	}
}

// AppointmentFromEntity creates an AppointmentModel from a domain Appointment entity.
func AppointmentFromEntity(e *entity.Appointment) *AppointmentModel {
	return &AppointmentModel{
		ID:         e.ID,
		TenantID:   e.TenantID,
		CustomerID: e.CustomerID,
		Title:      e.Title,
		Location:   e.Location,
		Status:     string(e.Status),
		StartsAt:   e.StartsAt.UTC(),
		EndsAt:     e.EndsAt.UTC(),
		CreatedAt:  e.CreatedAt.UTC(),
		UpdatedAt:  e.UpdatedAt.UTC(),
		DeletedAt:  gormDeletedAt(e.DeletedAt),
	}
}
