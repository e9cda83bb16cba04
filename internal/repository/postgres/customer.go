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

const customerColumns = `
	id, tenant_id, name, phone, email, notes, created_at, updated_at, deleted_at
`

type customerRepository struct {
	BaseRepository
}

func NewCustomerRepository(base BaseRepository) repository.CustomerRepository {
	return &customerRepository{base}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (
			id, tenant_id, name, phone, email, notes, created_at, updated_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q(ctx).ExecContext(ctx, query,
		customer.ID,
		customer.TenantID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Notes,
		customer.CreatedAt,
		customer.UpdatedAt,
		customer.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`
	var customer model.Customer
	if err := r.q(ctx).GetContext(ctx, &customer, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.CustomerFilters) ([]*model.Customer, int64, error) {
	where := " FROM customers WHERE tenant_id = $1 AND deleted_at IS NULL"
	args := []interface{}{tenantID}

	if filters.Query != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+filters.Query+"%")
	}

	var total int64
	if err := r.q(ctx).GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	limit, offset := filters.Normalize()
	query := fmt.Sprintf("SELECT %s%s ORDER BY created_at ASC LIMIT $%d OFFSET $%d",
		customerColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var customers []*model.Customer
	if err := r.q(ctx).SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, notes = $4, updated_at = $5,
			deleted_at = $6
		WHERE tenant_id = $7 AND id = $8
	`
	result, err := r.q(ctx).ExecContext(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Notes,
		customer.UpdatedAt,
		customer.DeletedAt,
		customer.TenantID,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("customer %s not found", customer.ID)
	}
	return nil
}

func (r *customerRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE tenant_id = $1 AND phone = $2 AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT 1
	`
	var customer model.Customer
	if err := r.q(ctx).GetContext(ctx, &customer, query, tenantID, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}
	return &customer, nil
}
