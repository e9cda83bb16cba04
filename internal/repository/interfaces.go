package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
)

// TxManager runs one unit of work inside a single transaction. The callback's
// context carries the transaction; every repository call made with it joins
// the same transaction, and any error rolls the whole unit back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// All repository interfaces in one file
type (
	// AppointmentRepository persists appointments. Get/List/Calendar never
	// return soft-deleted rows; GetDeleted returns only soft-deleted ones.
	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error)
		GetDeleted(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		// FindOverlapping returns non-cancelled, non-deleted appointments at
		// the tenant+location intersecting [start, end), ordered by starts_at
		// ascending. Plain read, no row lock: two concurrent units can both
		// see no conflict and both commit.
		FindOverlapping(ctx context.Context, tenantID, locationID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error)
		List(ctx context.Context, tenantID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, int64, error)
		Calendar(ctx context.Context, tenantID uuid.UUID, from, to time.Time, locationID *uuid.UUID) ([]*model.CalendarEntry, error)
	}

	LocationRepository interface {
		Create(ctx context.Context, loc *model.Location) error
		Get(ctx context.Context, tenantID, id uuid.UUID, includeDeleted bool) (*model.Location, error)
		List(ctx context.Context, tenantID uuid.UUID, filters *model.LocationFilters) ([]*model.Location, error)
		Update(ctx context.Context, loc *model.Location) error
		// OldestActive returns the oldest active, non-deleted location for the
		// tenant, or nil when none exists.
		OldestActive(ctx context.Context, tenantID uuid.UUID) (*model.Location, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, svc *model.Service) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Service, error)
		List(ctx context.Context, tenantID uuid.UUID, filters *model.ServiceFilters) ([]*model.Service, int64, error)
		Update(ctx context.Context, svc *model.Service) error
	}

	CustomerRepository interface {
		Create(ctx context.Context, customer *model.Customer) error
		Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error)
		List(ctx context.Context, tenantID uuid.UUID, filters *model.CustomerFilters) ([]*model.Customer, int64, error)
		Update(ctx context.Context, customer *model.Customer) error
		FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Customer, error)
	}

	// AuditRepository is append-only: entries are never updated or deleted.
	AuditRepository interface {
		Create(ctx context.Context, entry *model.AuditLog) error
		List(ctx context.Context, tenantID uuid.UUID, filters *model.AuditLogFilters) ([]*model.AuditLog, int64, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.User, error)
	}
)
