// Package scheduler is the appointment scheduling engine. It validates and
// persists create/update/delete/restore/list operations, enforcing the time
// window, status lifecycle and location overlap policy, and records one audit
// entry per mutation inside the mutation's transaction.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
	"github.com/salonkit/scheduler-api/internal/service/audit"
	"github.com/salonkit/scheduler-api/internal/service/location"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/metrics"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

type Service struct {
	appointments repository.AppointmentRepository
	customers    repository.CustomerRepository
	services     repository.ServiceRepository
	locations    *location.Service
	locationRepo repository.LocationRepository
	auditor      *audit.Service
	outbox       repository.OutboxRepository
	txm          repository.TxManager
	metrics      *metrics.Metrics
}

func NewService(
	appointments repository.AppointmentRepository,
	customers repository.CustomerRepository,
	services repository.ServiceRepository,
	locations *location.Service,
	locationRepo repository.LocationRepository,
	auditor *audit.Service,
	outbox repository.OutboxRepository,
	txm repository.TxManager,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		customers:    customers,
		services:     services,
		locations:    locations,
		locationRepo: locationRepo,
		auditor:      auditor,
		outbox:       outbox,
		txm:          txm,
		metrics:      m,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	var created *model.Appointment
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		loc, err := s.resolveLocation(ctx, tenantID, req.LocationID)
		if err != nil {
			return err
		}

		status := model.AppointmentStatusBooked
		if req.Status != nil {
			status = *req.Status
		}

		now := time.Now().UTC()
		actor := tenant.Actor(ctx)
		apt := &model.Appointment{
			ID:              uuid.New(),
			TenantID:        tenantID,
			CustomerID:      req.CustomerID,
			ServiceID:       req.ServiceID,
			LocationID:      loc.ID,
			StartsAt:        req.StartsAt,
			EndsAt:          req.EndsAt,
			Status:          status,
			CancelledReason: req.CancelledReason,
			StatusUpdatedAt: now,
			Notes:           req.Notes,
			CreatedByUserID: actor,
			UpdatedByUserID: actor,
			CreatedAt:       now,
		}

		if err := s.validate(ctx, tenantID, apt); err != nil {
			return err
		}
		if err := s.checkOverlap(ctx, tenantID, loc, apt, nil); err != nil {
			return err
		}

		if err := s.appointments.Create(ctx, apt); err != nil {
			return err
		}
		if err := s.auditor.Record(ctx, tenantID, model.AuditActionCreated, model.AuditEntityAppointment,
			apt.ID, nil, audit.AppointmentSnapshot(apt)); err != nil {
			return err
		}
		if err := s.emit(ctx, tenantID, model.EventAppointmentCreated, apt); err != nil {
			return err
		}
		created = apt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCreated.Inc()
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := s.appointments.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if apt == nil {
		return nil, apperrors.AppointmentNotFound()
	}
	return apt, nil
}

// Update merges the supplied fields over the stored appointment, re-validates
// the merged candidate end to end and re-runs the overlap check against it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *model.Appointment
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.appointments.Get(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.AppointmentNotFound()
		}

		before := audit.AppointmentSnapshot(existing)
		prevStatus := existing.Status

		merged := *existing
		if req.CustomerID != nil {
			merged.CustomerID = *req.CustomerID
		}
		if req.ServiceID != nil {
			merged.ServiceID = req.ServiceID
		}
		if req.LocationID != nil {
			merged.LocationID = *req.LocationID
		}
		if req.StartsAt != nil {
			merged.StartsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			merged.EndsAt = *req.EndsAt
		}
		if req.Status != nil {
			merged.Status = *req.Status
		}
		if req.Notes != nil {
			merged.Notes = req.Notes
		}
		if req.CancelledReason != nil {
			if merged.Status != model.AppointmentStatusCancelled {
				return apperrors.InvalidAppointmentState("cancelled_reason requires status cancelled")
			}
			merged.CancelledReason = req.CancelledReason
		}

		if merged.Status != prevStatus {
			merged.StatusUpdatedAt = time.Now().UTC()
		}
		// Leaving cancelled always clears the stored reason.
		if merged.Status != model.AppointmentStatusCancelled {
			merged.CancelledReason = nil
		}
		merged.UpdatedByUserID = tenant.Actor(ctx)

		if err := s.validate(ctx, tenantID, &merged); err != nil {
			return err
		}

		loc, err := s.activeLocation(ctx, tenantID, merged.LocationID)
		if err != nil {
			return err
		}
		if err := s.checkOverlap(ctx, tenantID, loc, &merged, &merged.ID); err != nil {
			return err
		}

		if err := s.appointments.Update(ctx, &merged); err != nil {
			return err
		}

		action := model.AuditActionUpdated
		if merged.Status != prevStatus {
			action = model.AuditActionStatusChanged
		}
		if err := s.auditor.Record(ctx, tenantID, action, model.AuditEntityAppointment,
			merged.ID, before, audit.AppointmentSnapshot(&merged)); err != nil {
			return err
		}
		if err := s.emit(ctx, tenantID, model.EventAppointmentUpdated, &merged); err != nil {
			return err
		}
		updated = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes the appointment. A soft-deleted row is invisible to
// every other operation except Restore.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return err
	}

	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		apt, err := s.appointments.Get(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if apt == nil {
			return apperrors.AppointmentNotFound()
		}

		before := audit.AppointmentSnapshot(apt)
		now := time.Now().UTC()
		apt.DeletedAt = &now
		apt.UpdatedByUserID = tenant.Actor(ctx)

		if err := s.appointments.Update(ctx, apt); err != nil {
			return err
		}
		if err := s.auditor.Record(ctx, tenantID, model.AuditActionDeleted, model.AuditEntityAppointment,
			apt.ID, before, audit.AppointmentSnapshot(apt)); err != nil {
			return err
		}
		return s.emit(ctx, tenantID, model.EventAppointmentDeleted, apt)
	})
}

// Restore clears the tombstone on a currently soft-deleted appointment.
func (s *Service) Restore(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	var restored *model.Appointment
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		apt, err := s.appointments.GetDeleted(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if apt == nil {
			return apperrors.AppointmentNotFound()
		}

		before := audit.AppointmentSnapshot(apt)
		apt.DeletedAt = nil
		apt.UpdatedByUserID = tenant.Actor(ctx)

		if err := s.appointments.Update(ctx, apt); err != nil {
			return err
		}
		if err := s.auditor.Record(ctx, tenantID, model.AuditActionUpdated, model.AuditEntityAppointment,
			apt.ID, before, audit.AppointmentSnapshot(apt)); err != nil {
			return err
		}
		if err := s.emit(ctx, tenantID, model.EventAppointmentRestored, apt); err != nil {
			return err
		}
		restored = apt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

var listSortFields = map[string]bool{
	"starts_at":         true,
	"ends_at":           true,
	"status":            true,
	"created_at":        true,
	"status_updated_at": true,
}

// List returns appointments whose starts_at falls inside [From, To).
func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) (*model.Page, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	if filters.Sort != "" && !listSortFields[filters.Sort] {
		return nil, apperrors.InvalidSortField(filters.Sort)
	}
	switch filters.Order {
	case "", "asc", "desc":
	default:
		return nil, apperrors.InvalidSortOrder(filters.Order)
	}
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return nil, apperrors.InvalidRange("range end precedes range start")
	}

	items, total, err := s.appointments.List(ctx, tenantID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if items == nil {
		items = []*model.Appointment{}
	}
	return &model.Page{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

// Calendar returns everything touching [from, to), denormalized for
// rendering. Wider than List on purpose: a booking that started before the
// window still occupies it.
func (s *Service) Calendar(ctx context.Context, from, to time.Time, locationID *uuid.UUID) ([]*model.CalendarEntry, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.InvalidRange("range end precedes range start")
	}

	entries, err := s.appointments.Calendar(ctx, tenantID, from, to, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	if entries == nil {
		entries = []*model.CalendarEntry{}
	}
	return entries, nil
}

// resolveLocation validates an explicit location or falls back to the
// tenant's default.
func (s *Service) resolveLocation(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) (*model.Location, error) {
	if locationID == nil {
		return s.locations.EnsureDefault(ctx)
	}
	return s.activeLocation(ctx, tenantID, *locationID)
}

func (s *Service) activeLocation(ctx context.Context, tenantID, id uuid.UUID) (*model.Location, error) {
	loc, err := s.locationRepo.Get(ctx, tenantID, id, false)
	if err != nil {
		return nil, err
	}
	if loc == nil || !loc.IsActive {
		return nil, apperrors.LocationNotFound()
	}
	return loc, nil
}

// validate enforces the window, status and referential invariants against
// the candidate row. It is re-run in full on every mutating call.
func (s *Service) validate(ctx context.Context, tenantID uuid.UUID, apt *model.Appointment) error {
	if !model.ValidStatus(apt.Status) {
		return apperrors.InvalidAppointmentState(fmt.Sprintf("unknown status %q", apt.Status))
	}
	if apt.CancelledReason != nil && apt.Status != model.AppointmentStatusCancelled {
		return apperrors.InvalidAppointmentState("cancelled_reason requires status cancelled")
	}
	if !apt.StartsAt.Before(apt.EndsAt) {
		return apperrors.InvalidAppointmentWindow("starts_at must be before ends_at")
	}

	customer, err := s.customers.Get(ctx, tenantID, apt.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperrors.CustomerNotFound()
	}

	if apt.ServiceID != nil {
		svc, err := s.services.Get(ctx, tenantID, *apt.ServiceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return apperrors.ServiceNotFound()
		}
		if !svc.IsActive {
			return apperrors.ServiceInactive()
		}
	}
	return nil
}

// checkOverlap aborts with the full conflict list when the candidate
// intersects a live booking at the same tenant+location. Skipped entirely for
// cancelled candidates and overlap-permitting locations. The read is not
// locked: two concurrent units of work can both pass and both commit.
func (s *Service) checkOverlap(ctx context.Context, tenantID uuid.UUID, loc *model.Location, apt *model.Appointment, excludeID *uuid.UUID) error {
	if apt.Status == model.AppointmentStatusCancelled || loc.AllowOverlaps {
		return nil
	}

	overlapping, err := s.appointments.FindOverlapping(ctx, tenantID, loc.ID, apt.StartsAt, apt.EndsAt, excludeID)
	if err != nil {
		return err
	}
	if len(overlapping) == 0 {
		return nil
	}

	if s.metrics != nil {
		s.metrics.OverlapConflicts.Inc()
	}
	conflicts := make([]apperrors.Conflict, len(overlapping))
	for i, other := range overlapping {
		conflicts[i] = apperrors.Conflict{ID: other.ID, StartsAt: other.StartsAt, EndsAt: other.EndsAt}
	}
	return apperrors.AppointmentOverlap(conflicts)
}

func (s *Service) emit(ctx context.Context, tenantID uuid.UUID, eventType string, apt *model.Appointment) error {
	payload, err := json.Marshal(audit.AppointmentSnapshot(apt))
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return s.outbox.Create(ctx, &model.OutboxEvent{
		ID:        uuid.New(),
		TenantID:  tenantID,
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now().UTC(),
	})
}
