// Package tenant carries the active tenant and actor through a unit of work.
//
// The values live on the context.Context of the request (or test) that owns
// the unit of work, so concurrent units under different tenants can never
// observe each other's state.
package tenant

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/pkg/errors"
)

type ctxKey int

const (
	tenantKey ctxKey = iota
	actorKey
)

// WithID returns a context scoped to the given tenant. Blank ids are rejected.
func WithID(ctx context.Context, tenantID string) (context.Context, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, errors.InvalidTenantID(tenantID)
	}
	return context.WithValue(ctx, tenantKey, tenantID), nil
}

// FromContext returns the tenant id, or "" when none is set.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(tenantKey).(string)
	return id
}

// Require returns the tenant id or fails the unit of work.
func Require(ctx context.Context) (string, error) {
	id := FromContext(ctx)
	if id == "" {
		return "", errors.MissingTenantContext()
	}
	return id, nil
}

// RequireUUID returns the tenant id parsed to its canonical UUID form.
func RequireUUID(ctx context.Context) (uuid.UUID, error) {
	raw, err := Require(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.InvalidTenantID(raw)
	}
	return id, nil
}

// Clear drops the tenant from the context. Handlers use it on exit paths that
// hand the context to code outside the unit of work.
func Clear(ctx context.Context) context.Context {
	return context.WithValue(ctx, tenantKey, "")
}

// WithActor records the authenticated user performing the unit of work.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, userID)
}

// Actor returns the acting user id, or nil when the caller is anonymous.
func Actor(ctx context.Context) *uuid.UUID {
	id, ok := ctx.Value(actorKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return nil
	}
	return &id
}
