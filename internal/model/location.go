package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultLocationName is used when a tenant's default location is created
// lazily.
const DefaultLocationName = "Main Location"

type Location struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	TenantID      uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Name          string          `db:"name" json:"name"`
	Timezone      string          `db:"timezone" json:"timezone"`
	AddressLine1  *string         `db:"address_line1" json:"address_line1,omitempty"`
	AddressLine2  *string         `db:"address_line2" json:"address_line2,omitempty"`
	City          *string         `db:"city" json:"city,omitempty"`
	Postcode      *string         `db:"postcode" json:"postcode,omitempty"`
	Country       *string         `db:"country" json:"country,omitempty"`
	Phone         *string         `db:"phone" json:"phone,omitempty"`
	Email         *string         `db:"email" json:"email,omitempty"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	HoursJSON     json.RawMessage `db:"hours_json" json:"hours_json,omitempty"`
	AllowOverlaps bool            `db:"allow_overlaps" json:"allow_overlaps"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time      `db:"deleted_at" json:"deleted_at,omitempty"`
}

type CreateLocationRequest struct {
	Name          string          `json:"name" validate:"required,max=120"`
	Timezone      string          `json:"timezone" validate:"required,max=120"`
	AddressLine1  *string         `json:"address_line1"`
	AddressLine2  *string         `json:"address_line2"`
	City          *string         `json:"city" validate:"omitempty,max=120"`
	Postcode      *string         `json:"postcode" validate:"omitempty,max=40"`
	Country       *string         `json:"country" validate:"omitempty,max=120"`
	Phone         *string         `json:"phone" validate:"omitempty,max=40"`
	Email         *string         `json:"email" validate:"omitempty,email"`
	IsActive      *bool           `json:"is_active"`
	HoursJSON     json.RawMessage `json:"hours_json"`
	AllowOverlaps *bool           `json:"allow_overlaps"`
}

type UpdateLocationRequest struct {
	Name          *string         `json:"name" validate:"omitempty,max=120"`
	Timezone      *string         `json:"timezone" validate:"omitempty,max=120"`
	AddressLine1  *string         `json:"address_line1"`
	AddressLine2  *string         `json:"address_line2"`
	City          *string         `json:"city" validate:"omitempty,max=120"`
	Postcode      *string         `json:"postcode" validate:"omitempty,max=40"`
	Country       *string         `json:"country" validate:"omitempty,max=120"`
	Phone         *string         `json:"phone" validate:"omitempty,max=40"`
	Email         *string         `json:"email" validate:"omitempty,email"`
	IsActive      *bool           `json:"is_active"`
	HoursJSON     json.RawMessage `json:"hours_json"`
	AllowOverlaps *bool           `json:"allow_overlaps"`
}

type LocationFilters struct {
	IncludeInactive bool
	IncludeDeleted  bool
}
