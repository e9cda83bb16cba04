package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an immutable before/after record of one entity mutation.
// Entries are written in the same transaction as the mutation they describe
// and are never updated or deleted.
type AuditLog struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	TenantID   uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	UserID     *uuid.UUID      `db:"user_id" json:"user_id,omitempty"`
	Action     string          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID       `db:"entity_id" json:"entity_id"`
	Before     json.RawMessage `db:"before" json:"before,omitempty"`
	After      json.RawMessage `db:"after" json:"after,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

const (
	AuditActionCreated       = "created"
	AuditActionUpdated       = "updated"
	AuditActionDeleted       = "deleted"
	AuditActionStatusChanged = "status_changed"

	AuditEntityAppointment = "appointment"
	AuditEntityLocation    = "location"
	AuditEntityService     = "service"
	AuditEntityCustomer    = "customer"
)

type AuditLogFilters struct {
	EntityType string
	EntityID   *uuid.UUID
	Action     string
	Pagination
}
