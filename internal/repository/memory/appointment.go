package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{store: store}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	defer r.store.enter(ctx)()
	copied := *apt
	r.store.state.appointments[apt.ID] = &copied
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	defer r.store.enter(ctx)()
	apt, ok := r.store.state.appointments[id]
	if !ok || apt.TenantID != tenantID || apt.DeletedAt != nil {
		return nil, nil
	}
	copied := *apt
	return &copied, nil
}

func (r *appointmentRepository) GetDeleted(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	defer r.store.enter(ctx)()
	apt, ok := r.store.state.appointments[id]
	if !ok || apt.TenantID != tenantID || apt.DeletedAt == nil {
		return nil, nil
	}
	copied := *apt
	return &copied, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	defer r.store.enter(ctx)()
	existing, ok := r.store.state.appointments[apt.ID]
	if !ok || existing.TenantID != apt.TenantID {
		return fmt.Errorf("appointment %s not found", apt.ID)
	}
	copied := *apt
	r.store.state.appointments[apt.ID] = &copied
	return nil
}

func (r *appointmentRepository) FindOverlapping(ctx context.Context, tenantID, locationID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	defer r.store.enter(ctx)()

	var matches []*model.Appointment
	for _, apt := range r.store.state.appointments {
		if apt.TenantID != tenantID || apt.LocationID != locationID {
			continue
		}
		if apt.DeletedAt != nil || apt.Status == model.AppointmentStatusCancelled {
			continue
		}
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if apt.StartsAt.Before(end) && apt.EndsAt.After(start) {
			copied := *apt
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].StartsAt.Before(matches[j].StartsAt) })
	return matches, nil
}

func (r *appointmentRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, int64, error) {
	defer r.store.enter(ctx)()

	var matches []*model.Appointment
	for _, apt := range r.store.state.appointments {
		if apt.TenantID != tenantID || apt.DeletedAt != nil {
			continue
		}
		if filters.From != nil && apt.StartsAt.Before(*filters.From) {
			continue
		}
		if filters.To != nil && !apt.StartsAt.Before(*filters.To) {
			continue
		}
		if filters.LocationID != nil && apt.LocationID != *filters.LocationID {
			continue
		}
		if filters.CustomerID != nil && apt.CustomerID != *filters.CustomerID {
			continue
		}
		if filters.ServiceID != nil && (apt.ServiceID == nil || *apt.ServiceID != *filters.ServiceID) {
			continue
		}
		if filters.Status != nil && apt.Status != *filters.Status {
			continue
		}
		if filters.Query != "" && !r.matchesQuery(apt, filters.Query) {
			continue
		}
		copied := *apt
		matches = append(matches, &copied)
	}

	sortAppointments(matches, filters.Sort, filters.Order)
	total := int64(len(matches))

	limit, offset := filters.Normalize()
	if offset >= len(matches) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

func (r *appointmentRepository) matchesQuery(apt *model.Appointment, query string) bool {
	q := strings.ToLower(query)
	if customer, ok := r.store.state.customers[apt.CustomerID]; ok {
		if strings.Contains(strings.ToLower(customer.Name), q) {
			return true
		}
	}
	return apt.Notes != nil && strings.Contains(strings.ToLower(*apt.Notes), q)
}

func sortAppointments(items []*model.Appointment, field, order string) {
	less := func(a, b *model.Appointment) bool {
		switch field {
		case "ends_at":
			return a.EndsAt.Before(b.EndsAt)
		case "status":
			return a.Status < b.Status
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "status_updated_at":
			return a.StatusUpdatedAt.Before(b.StatusUpdatedAt)
		default:
			return a.StartsAt.Before(b.StartsAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if order == "desc" {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func (r *appointmentRepository) Calendar(ctx context.Context, tenantID uuid.UUID, from, to time.Time, locationID *uuid.UUID) ([]*model.CalendarEntry, error) {
	defer r.store.enter(ctx)()

	var entries []*model.CalendarEntry
	for _, apt := range r.store.state.appointments {
		if apt.TenantID != tenantID || apt.DeletedAt != nil {
			continue
		}
		if locationID != nil && apt.LocationID != *locationID {
			continue
		}
		if !apt.StartsAt.Before(to) || !apt.EndsAt.After(from) {
			continue
		}

		entry := &model.CalendarEntry{
			ID:         apt.ID,
			CustomerID: apt.CustomerID,
			ServiceID:  apt.ServiceID,
			LocationID: apt.LocationID,
			StartsAt:   apt.StartsAt,
			EndsAt:     apt.EndsAt,
			Status:     apt.Status,
			Notes:      apt.Notes,
		}
		if customer, ok := r.store.state.customers[apt.CustomerID]; ok {
			entry.CustomerName = customer.Name
		}
		if loc, ok := r.store.state.locations[apt.LocationID]; ok {
			entry.LocationName = loc.Name
		}
		if apt.ServiceID != nil {
			if svc, ok := r.store.state.services[*apt.ServiceID]; ok {
				name := svc.Name
				entry.ServiceName = &name
			}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartsAt.Before(entries[j].StartsAt) })
	return entries, nil
}
