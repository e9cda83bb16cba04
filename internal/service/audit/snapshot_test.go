package audit_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/service/audit"
)

func TestAppointmentSnapshotCanonicalForms(t *testing.T) {
	serviceID := uuid.New()
	reason := "double booked"
	start := time.Date(2026, 3, 2, 10, 0, 0, 500, time.FixedZone("CET", 3600))

	apt := &model.Appointment{
		ID:              uuid.New(),
		TenantID:        uuid.New(),
		CustomerID:      uuid.New(),
		ServiceID:       &serviceID,
		LocationID:      uuid.New(),
		StartsAt:        start,
		EndsAt:          start.Add(time.Hour),
		Status:          model.AppointmentStatusCancelled,
		CancelledReason: &reason,
		StatusUpdatedAt: start,
		CreatedAt:       start,
	}

	snap := audit.AppointmentSnapshot(apt)
	require.NotNil(t, snap)

	assert.Equal(t, apt.ID.String(), snap["id"])
	assert.Equal(t, serviceID.String(), snap["service_id"])
	assert.Equal(t, "cancelled", snap["status"])
	assert.Equal(t, reason, snap["cancelled_reason"])

	// Timestamps are normalized to UTC before formatting.
	assert.Equal(t, "2026-03-02T09:00:00.0000005Z", snap["starts_at"])

	// Optional fields survive as explicit nulls, not missing keys.
	assert.Contains(t, snap, "notes")
	assert.Nil(t, snap["notes"])
	assert.Contains(t, snap, "deleted_at")
	assert.Nil(t, snap["deleted_at"])
}

func TestSnapshotNilEntity(t *testing.T) {
	assert.Nil(t, audit.AppointmentSnapshot(nil))
	assert.Nil(t, audit.LocationSnapshot(nil))
	assert.Nil(t, audit.ServiceSnapshot(nil))
	assert.Nil(t, audit.CustomerSnapshot(nil))
}

func TestCustomerSnapshotFields(t *testing.T) {
	phone := "+44 20 7946 0123"
	now := time.Now().UTC()
	customer := &model.Customer{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		Name:      "Ada Lovelace",
		Phone:     &phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	snap := audit.CustomerSnapshot(customer)
	assert.Equal(t, "Ada Lovelace", snap["name"])
	assert.Equal(t, phone, snap["phone"])
	assert.Nil(t, snap["email"])
	assert.Equal(t, now.Format(time.RFC3339Nano), snap["created_at"])
}
