package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is one bookable catalog entry (haircut, massage, ...).
type Service struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	TenantID        uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Name            string     `db:"name" json:"name"`
	PriceCents      int        `db:"price_cents" json:"price_cents"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	DeletedAt       *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type CreateServiceRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	PriceCents      int    `json:"price_cents" validate:"gte=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"gt=0"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=200"`
	PriceCents      *int    `json:"price_cents" validate:"omitempty,gte=0"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gt=0"`
	IsActive        *bool   `json:"is_active"`
}

type ServiceFilters struct {
	Query           string
	IncludeInactive bool
	Sort            string
	Order           string
	Pagination
}
