package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
)

// Snapshot functions serialize every persisted scalar attribute of an entity
// into a stable map: ids as canonical strings, timestamps as RFC 3339,
// enum-like fields as their underlying value. Explicit per-entity functions
// keep snapshots stable across refactors; renaming a struct field does not
// silently rename a snapshot key.

func snapTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func snapTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return snapTime(*t)
}

func snapUUIDPtr(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func snapStringPtr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func AppointmentSnapshot(apt *model.Appointment) model.JSONMap {
	if apt == nil {
		return nil
	}
	return model.JSONMap{
		"id":                 apt.ID.String(),
		"tenant_id":          apt.TenantID.String(),
		"customer_id":        apt.CustomerID.String(),
		"service_id":         snapUUIDPtr(apt.ServiceID),
		"location_id":        apt.LocationID.String(),
		"starts_at":          snapTime(apt.StartsAt),
		"ends_at":            snapTime(apt.EndsAt),
		"status":             string(apt.Status),
		"cancelled_reason":   snapStringPtr(apt.CancelledReason),
		"status_updated_at":  snapTime(apt.StatusUpdatedAt),
		"notes":              snapStringPtr(apt.Notes),
		"created_by_user_id": snapUUIDPtr(apt.CreatedByUserID),
		"updated_by_user_id": snapUUIDPtr(apt.UpdatedByUserID),
		"created_at":         snapTime(apt.CreatedAt),
		"deleted_at":         snapTimePtr(apt.DeletedAt),
	}
}

func LocationSnapshot(loc *model.Location) model.JSONMap {
	if loc == nil {
		return nil
	}
	var hours interface{}
	if len(loc.HoursJSON) > 0 {
		hours = json.RawMessage(loc.HoursJSON)
	}
	return model.JSONMap{
		"id":             loc.ID.String(),
		"tenant_id":      loc.TenantID.String(),
		"name":           loc.Name,
		"timezone":       loc.Timezone,
		"address_line1":  snapStringPtr(loc.AddressLine1),
		"address_line2":  snapStringPtr(loc.AddressLine2),
		"city":           snapStringPtr(loc.City),
		"postcode":       snapStringPtr(loc.Postcode),
		"country":        snapStringPtr(loc.Country),
		"phone":          snapStringPtr(loc.Phone),
		"email":          snapStringPtr(loc.Email),
		"is_active":      loc.IsActive,
		"hours_json":     hours,
		"allow_overlaps": loc.AllowOverlaps,
		"created_at":     snapTime(loc.CreatedAt),
		"updated_at":     snapTime(loc.UpdatedAt),
		"deleted_at":     snapTimePtr(loc.DeletedAt),
	}
}

func ServiceSnapshot(svc *model.Service) model.JSONMap {
	if svc == nil {
		return nil
	}
	return model.JSONMap{
		"id":               svc.ID.String(),
		"tenant_id":        svc.TenantID.String(),
		"name":             svc.Name,
		"price_cents":      svc.PriceCents,
		"duration_minutes": svc.DurationMinutes,
		"is_active":        svc.IsActive,
		"created_at":       snapTime(svc.CreatedAt),
		"deleted_at":       snapTimePtr(svc.DeletedAt),
	}
}

func CustomerSnapshot(customer *model.Customer) model.JSONMap {
	if customer == nil {
		return nil
	}
	return model.JSONMap{
		"id":         customer.ID.String(),
		"tenant_id":  customer.TenantID.String(),
		"name":       customer.Name,
		"phone":      snapStringPtr(customer.Phone),
		"email":      snapStringPtr(customer.Email),
		"notes":      snapStringPtr(customer.Notes),
		"created_at": snapTime(customer.CreatedAt),
		"updated_at": snapTime(customer.UpdatedAt),
		"deleted_at": snapTimePtr(customer.DeletedAt),
	}
}
