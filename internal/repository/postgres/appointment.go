package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
)

const appointmentColumns = `
	id, tenant_id, customer_id, service_id, location_id,
	starts_at, ends_at, status, cancelled_reason, status_updated_at,
	notes, created_by_user_id, updated_by_user_id, created_at, deleted_at
`

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, tenant_id, customer_id, service_id, location_id,
			starts_at, ends_at, status, cancelled_reason, status_updated_at,
			notes, created_by_user_id, updated_by_user_id, created_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.q(ctx).ExecContext(ctx, query,
		apt.ID,
		apt.TenantID,
		apt.CustomerID,
		apt.ServiceID,
		apt.LocationID,
		apt.StartsAt,
		apt.EndsAt,
		apt.Status,
		apt.CancelledReason,
		apt.StatusUpdatedAt,
		apt.Notes,
		apt.CreatedByUserID,
		apt.UpdatedByUserID,
		apt.CreatedAt,
		apt.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`
	var apt model.Appointment
	if err := r.q(ctx).GetContext(ctx, &apt, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) GetDeleted(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NOT NULL
	`
	var apt model.Appointment
	if err := r.q(ctx).GetContext(ctx, &apt, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deleted appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET customer_id = $1, service_id = $2, location_id = $3,
			starts_at = $4, ends_at = $5, status = $6, cancelled_reason = $7,
			status_updated_at = $8, notes = $9, updated_by_user_id = $10,
			deleted_at = $11
		WHERE tenant_id = $12 AND id = $13
	`
	result, err := r.q(ctx).ExecContext(ctx, query,
		apt.CustomerID,
		apt.ServiceID,
		apt.LocationID,
		apt.StartsAt,
		apt.EndsAt,
		apt.Status,
		apt.CancelledReason,
		apt.StatusUpdatedAt,
		apt.Notes,
		apt.UpdatedByUserID,
		apt.DeletedAt,
		apt.TenantID,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment %s not found", apt.ID)
	}
	return nil
}

// FindOverlapping uses the half-open interval test: an existing row conflicts
// when existing.starts_at < end AND existing.ends_at > start. No row lock is
// taken, so the check-then-write is only as strong as the store's isolation.
func (r *appointmentRepository) FindOverlapping(ctx context.Context, tenantID, locationID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1
		AND location_id = $2
		AND deleted_at IS NULL
		AND status != 'cancelled'
		AND starts_at < $3
		AND ends_at > $4
	`
	args := []interface{}{tenantID, locationID, end, start}

	if excludeID != nil {
		query += " AND id != $5"
		args = append(args, *excludeID)
	}

	query += " ORDER BY starts_at ASC"

	var appointments []*model.Appointment
	if err := r.q(ctx).SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find overlapping appointments: %w", err)
	}
	return appointments, nil
}

var appointmentSortColumns = map[string]string{
	"starts_at":         "a.starts_at",
	"ends_at":           "a.ends_at",
	"status":            "a.status",
	"created_at":        "a.created_at",
	"status_updated_at": "a.status_updated_at",
}

func (r *appointmentRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, int64, error) {
	where := " FROM appointments a JOIN customers c ON c.id = a.customer_id WHERE a.tenant_id = $1 AND a.deleted_at IS NULL"
	args := []interface{}{tenantID}

	// List semantics: starts_at must fall inside [from, to).
	if filters.From != nil {
		where += fmt.Sprintf(" AND a.starts_at >= $%d", len(args)+1)
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		where += fmt.Sprintf(" AND a.starts_at < $%d", len(args)+1)
		args = append(args, *filters.To)
	}
	if filters.LocationID != nil {
		where += fmt.Sprintf(" AND a.location_id = $%d", len(args)+1)
		args = append(args, *filters.LocationID)
	}
	if filters.CustomerID != nil {
		where += fmt.Sprintf(" AND a.customer_id = $%d", len(args)+1)
		args = append(args, *filters.CustomerID)
	}
	if filters.ServiceID != nil {
		where += fmt.Sprintf(" AND a.service_id = $%d", len(args)+1)
		args = append(args, *filters.ServiceID)
	}
	if filters.Status != nil {
		where += fmt.Sprintf(" AND a.status = $%d", len(args)+1)
		args = append(args, *filters.Status)
	}
	if filters.Query != "" {
		where += fmt.Sprintf(" AND (c.name ILIKE $%d OR a.notes ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filters.Query+"%")
	}

	var total int64
	if err := r.q(ctx).GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	sortCol, ok := appointmentSortColumns[filters.Sort]
	if !ok {
		sortCol = "a.starts_at"
	}
	dir := "ASC"
	if filters.Order == "desc" {
		dir = "DESC"
	}

	limit, offset := filters.Normalize()
	query := fmt.Sprintf(
		"SELECT a.id, a.tenant_id, a.customer_id, a.service_id, a.location_id, a.starts_at, a.ends_at, a.status, a.cancelled_reason, a.status_updated_at, a.notes, a.created_by_user_id, a.updated_by_user_id, a.created_at, a.deleted_at%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		where, sortCol, dir, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	var appointments []*model.Appointment
	if err := r.q(ctx).SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

// Calendar returns everything touching [from, to): starts_at < to AND
// ends_at > from. Intentionally wider than List, which keys on starts_at only.
func (r *appointmentRepository) Calendar(ctx context.Context, tenantID uuid.UUID, from, to time.Time, locationID *uuid.UUID) ([]*model.CalendarEntry, error) {
	query := `
		SELECT a.id, a.customer_id, c.name AS customer_name,
			   a.service_id, s.name AS service_name,
			   a.location_id, l.name AS location_name,
			   a.starts_at, a.ends_at, a.status, a.notes
		FROM appointments a
		JOIN customers c ON c.id = a.customer_id
		JOIN locations l ON l.id = a.location_id
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.tenant_id = $1
		AND a.deleted_at IS NULL
		AND a.starts_at < $2
		AND a.ends_at > $3
	`
	args := []interface{}{tenantID, to, from}

	if locationID != nil {
		query += " AND a.location_id = $4"
		args = append(args, *locationID)
	}

	query += " ORDER BY a.starts_at ASC"

	var entries []*model.CalendarEntry
	if err := r.q(ctx).SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	return entries, nil
}
