package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// ValidStatus reports whether s is one of the persisted status values.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusBooked, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	TenantID        uuid.UUID         `db:"tenant_id" json:"tenant_id"`
	CustomerID      uuid.UUID         `db:"customer_id" json:"customer_id"`
	ServiceID       *uuid.UUID        `db:"service_id" json:"service_id,omitempty"`
	LocationID      uuid.UUID         `db:"location_id" json:"location_id"`
	StartsAt        time.Time         `db:"starts_at" json:"starts_at"`
	EndsAt          time.Time         `db:"ends_at" json:"ends_at"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CancelledReason *string           `db:"cancelled_reason" json:"cancelled_reason,omitempty"`
	StatusUpdatedAt time.Time         `db:"status_updated_at" json:"status_updated_at"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	CreatedByUserID *uuid.UUID        `db:"created_by_user_id" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *uuid.UUID        `db:"updated_by_user_id" json:"updated_by_user_id,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	DeletedAt       *time.Time        `db:"deleted_at" json:"deleted_at,omitempty"`
}

type CreateAppointmentRequest struct {
	CustomerID      uuid.UUID          `json:"customer_id" validate:"required"`
	ServiceID       *uuid.UUID         `json:"service_id"`
	LocationID      *uuid.UUID         `json:"location_id"`
	StartsAt        time.Time          `json:"starts_at" validate:"required"`
	EndsAt          time.Time          `json:"ends_at" validate:"required"`
	Status          *AppointmentStatus `json:"status"`
	CancelledReason *string            `json:"cancelled_reason"`
	Notes           *string            `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateAppointmentRequest carries a partial patch; nil fields keep the
// stored value.
type UpdateAppointmentRequest struct {
	CustomerID      *uuid.UUID         `json:"customer_id"`
	ServiceID       *uuid.UUID         `json:"service_id"`
	LocationID      *uuid.UUID         `json:"location_id"`
	StartsAt        *time.Time         `json:"starts_at"`
	EndsAt          *time.Time         `json:"ends_at"`
	Status          *AppointmentStatus `json:"status"`
	CancelledReason *string            `json:"cancelled_reason"`
	Notes           *string            `json:"notes" validate:"omitempty,max=2000"`
}

// AppointmentFilters narrows list and calendar queries. From/To bound
// starts_at for lists; calendar queries return anything touching [From, To).
type AppointmentFilters struct {
	From       *time.Time
	To         *time.Time
	LocationID *uuid.UUID
	CustomerID *uuid.UUID
	ServiceID  *uuid.UUID
	Status     *AppointmentStatus
	Query      string
	Sort       string
	Order      string
	Pagination
}

// CalendarEntry is a denormalized appointment row for calendar rendering.
type CalendarEntry struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	CustomerID   uuid.UUID         `db:"customer_id" json:"customer_id"`
	CustomerName string            `db:"customer_name" json:"customer_name"`
	ServiceID    *uuid.UUID        `db:"service_id" json:"service_id,omitempty"`
	ServiceName  *string           `db:"service_name" json:"service_name,omitempty"`
	LocationID   uuid.UUID         `db:"location_id" json:"location_id"`
	LocationName string            `db:"location_name" json:"location_name"`
	StartsAt     time.Time         `db:"starts_at" json:"starts_at"`
	EndsAt       time.Time         `db:"ends_at" json:"ends_at"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        *string           `db:"notes" json:"notes,omitempty"`
}
