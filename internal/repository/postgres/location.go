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

const locationColumns = `
	id, tenant_id, name, timezone, address_line1, address_line2, city,
	postcode, country, phone, email, is_active, hours_json, allow_overlaps,
	created_at, updated_at, deleted_at
`

type locationRepository struct {
	BaseRepository
}

func NewLocationRepository(base BaseRepository) repository.LocationRepository {
	return &locationRepository{base}
}

func (r *locationRepository) Create(ctx context.Context, loc *model.Location) error {
	query := `
		INSERT INTO locations (
			id, tenant_id, name, timezone, address_line1, address_line2, city,
			postcode, country, phone, email, is_active, hours_json, allow_overlaps,
			created_at, updated_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.q(ctx).ExecContext(ctx, query,
		loc.ID,
		loc.TenantID,
		loc.Name,
		loc.Timezone,
		loc.AddressLine1,
		loc.AddressLine2,
		loc.City,
		loc.Postcode,
		loc.Country,
		loc.Phone,
		loc.Email,
		loc.IsActive,
		loc.HoursJSON,
		loc.AllowOverlaps,
		loc.CreatedAt,
		loc.UpdatedAt,
		loc.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (r *locationRepository) Get(ctx context.Context, tenantID, id uuid.UUID, includeDeleted bool) (*model.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE tenant_id = $1 AND id = $2
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	var loc model.Location
	if err := r.q(ctx).GetContext(ctx, &loc, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &loc, nil
}

func (r *locationRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.LocationFilters) ([]*model.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE tenant_id = $1
	`
	if !filters.IncludeInactive {
		query += " AND is_active = TRUE"
	}
	if !filters.IncludeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY created_at ASC"

	var locations []*model.Location
	if err := r.q(ctx).SelectContext(ctx, &locations, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (r *locationRepository) Update(ctx context.Context, loc *model.Location) error {
	query := `
		UPDATE locations
		SET name = $1, timezone = $2, address_line1 = $3, address_line2 = $4,
			city = $5, postcode = $6, country = $7, phone = $8, email = $9,
			is_active = $10, hours_json = $11, allow_overlaps = $12,
			updated_at = $13, deleted_at = $14
		WHERE tenant_id = $15 AND id = $16
	`
	result, err := r.q(ctx).ExecContext(ctx, query,
		loc.Name,
		loc.Timezone,
		loc.AddressLine1,
		loc.AddressLine2,
		loc.City,
		loc.Postcode,
		loc.Country,
		loc.Phone,
		loc.Email,
		loc.IsActive,
		loc.HoursJSON,
		loc.AllowOverlaps,
		loc.UpdatedAt,
		loc.DeletedAt,
		loc.TenantID,
		loc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("location %s not found", loc.ID)
	}
	return nil
}

func (r *locationRepository) OldestActive(ctx context.Context, tenantID uuid.UUID) (*model.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE tenant_id = $1 AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT 1
	`
	var loc model.Location
	if err := r.q(ctx).GetContext(ctx, &loc, query, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oldest active location: %w", err)
	}
	return &loc, nil
}
