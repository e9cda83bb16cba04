package location_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository/memory"
	"github.com/salonkit/scheduler-api/internal/service/audit"
	"github.com/salonkit/scheduler-api/internal/service/location"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

func newService(t *testing.T) (*location.Service, *audit.Service, context.Context, uuid.UUID) {
	t.Helper()
	store := memory.NewStore()
	auditor := audit.NewService(memory.NewAuditRepository(store))
	svc := location.NewService(memory.NewLocationRepository(store), auditor, store)

	tenantID := uuid.New()
	ctx, err := tenant.WithID(context.Background(), tenantID.String())
	require.NoError(t, err)
	return svc, auditor, ctx, tenantID
}

func TestCreateNormalizesInput(t *testing.T) {
	svc, _, ctx, _ := newService(t)

	email := "  Bookings@Salon.Example  "
	blank := "   "
	loc, err := svc.Create(ctx, &model.CreateLocationRequest{
		Name:     "  High Street  ",
		Timezone: "Europe/London",
		Email:    &email,
		City:     &blank,
	})
	require.NoError(t, err)

	assert.Equal(t, "High Street", loc.Name)
	require.NotNil(t, loc.Email)
	assert.Equal(t, "bookings@salon.example", *loc.Email)
	assert.Nil(t, loc.City)
	assert.True(t, loc.IsActive)
	assert.False(t, loc.AllowOverlaps)
}

func TestEnsureDefaultIdempotent(t *testing.T) {
	svc, auditor, ctx, tenantID := newService(t)

	first, err := svc.EnsureDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLocationName, first.Name)
	assert.Equal(t, "UTC", first.Timezone)

	second, err := svc.EnsureDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Only the lazy creation was audited, not the resolution.
	_, total, err := auditor.List(ctx, tenantID, &model.AuditLogFilters{
		EntityType: model.AuditEntityLocation,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestEnsureDefaultPrefersOldestActive(t *testing.T) {
	svc, _, ctx, _ := newService(t)

	existing, err := svc.Create(ctx, &model.CreateLocationRequest{
		Name:     "Original Shop",
		Timezone: "UTC",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.CreateLocationRequest{
		Name:     "Second Shop",
		Timezone: "UTC",
	})
	require.NoError(t, err)

	resolved, err := svc.EnsureDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resolved.ID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, auditor, ctx, tenantID := newService(t)

	loc, err := svc.Create(ctx, &model.CreateLocationRequest{Name: "Popup", Timezone: "UTC"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, loc.ID))
	require.NoError(t, svc.Delete(ctx, loc.ID))

	_, err = svc.Get(ctx, loc.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLocationNotFound))

	// One created entry plus one deleted entry; the repeat left no trace.
	_, total, err := auditor.List(ctx, tenantID, &model.AuditLogFilters{
		EntityType: model.AuditEntityLocation,
		EntityID:   &loc.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestDeletedLocationNotResolvedAsDefault(t *testing.T) {
	svc, _, ctx, _ := newService(t)

	loc, err := svc.EnsureDefault(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, loc.ID))

	replacement, err := svc.EnsureDefault(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, loc.ID, replacement.ID)
}

func TestUpdateOverlapPolicy(t *testing.T) {
	svc, _, ctx, _ := newService(t)

	loc, err := svc.Create(ctx, &model.CreateLocationRequest{Name: "Studio", Timezone: "UTC"})
	require.NoError(t, err)

	allow := true
	updated, err := svc.Update(ctx, loc.ID, &model.UpdateLocationRequest{AllowOverlaps: &allow})
	require.NoError(t, err)
	assert.True(t, updated.AllowOverlaps)

	_, err = svc.Update(ctx, uuid.New(), &model.UpdateLocationRequest{AllowOverlaps: &allow})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLocationNotFound))
}

func TestListFiltersInactive(t *testing.T) {
	svc, _, ctx, _ := newService(t)

	_, err := svc.Create(ctx, &model.CreateLocationRequest{Name: "Open", Timezone: "UTC"})
	require.NoError(t, err)
	inactive := false
	_, err = svc.Create(ctx, &model.CreateLocationRequest{Name: "Closed", Timezone: "UTC", IsActive: &inactive})
	require.NoError(t, err)

	active, err := svc.List(ctx, &model.LocationFilters{})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(ctx, &model.LocationFilters{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
