package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
)

const serviceColumns = `
	id, tenant_id, name, price_cents, duration_minutes, is_active,
	created_at, deleted_at
`

type serviceRepository struct {
	BaseRepository
}

func NewServiceRepository(base BaseRepository) repository.ServiceRepository {
	return &serviceRepository{base}
}

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (
			id, tenant_id, name, price_cents, duration_minutes, is_active,
			created_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q(ctx).ExecContext(ctx, query,
		svc.ID,
		svc.TenantID,
		svc.Name,
		svc.PriceCents,
		svc.DurationMinutes,
		svc.IsActive,
		svc.CreatedAt,
		svc.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`
	var svc model.Service
	if err := r.q(ctx).GetContext(ctx, &svc, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

var serviceSortColumns = map[string]string{
	"name":             "name",
	"price_cents":      "price_cents",
	"duration_minutes": "duration_minutes",
	"created_at":       "created_at",
}

func (r *serviceRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.ServiceFilters) ([]*model.Service, int64, error) {
	where := " FROM services WHERE tenant_id = $1 AND deleted_at IS NULL"
	args := []interface{}{tenantID}

	if !filters.IncludeInactive {
		where += " AND is_active = TRUE"
	}
	if filters.Query != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args)+1)
		args = append(args, "%"+filters.Query+"%")
	}

	var total int64
	if err := r.q(ctx).GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	sortCol, ok := serviceSortColumns[filters.Sort]
	if !ok {
		sortCol = "created_at"
	}
	dir := "ASC"
	if filters.Order == "desc" {
		dir = "DESC"
	}

	limit, offset := filters.Normalize()
	query := fmt.Sprintf("SELECT %s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		serviceColumns, where, sortCol, dir, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var services []*model.Service
	if err := r.q(ctx).SelectContext(ctx, &services, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}
	return services, total, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, price_cents = $2, duration_minutes = $3, is_active = $4,
			deleted_at = $5
		WHERE tenant_id = $6 AND id = $7
	`
	result, err := r.q(ctx).ExecContext(ctx, query,
		svc.Name,
		svc.PriceCents,
		svc.DurationMinutes,
		svc.IsActive,
		svc.DeletedAt,
		svc.TenantID,
		svc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service %s not found", svc.ID)
	}
	return nil
}
