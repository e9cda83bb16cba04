package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

// Create appends one entry. There is no update or delete path, ever.
func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, tenant_id, user_id, action, entity_type, entity_id,
			before, after, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q(ctx).ExecContext(ctx, query,
		entry.ID,
		entry.TenantID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Before,
		entry.After,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.AuditLogFilters) ([]*model.AuditLog, int64, error) {
	where := " FROM audit_logs WHERE tenant_id = $1"
	args := []interface{}{tenantID}

	if filters.EntityType != "" {
		where += fmt.Sprintf(" AND entity_type = $%d", len(args)+1)
		args = append(args, filters.EntityType)
	}
	if filters.EntityID != nil {
		where += fmt.Sprintf(" AND entity_id = $%d", len(args)+1)
		args = append(args, *filters.EntityID)
	}
	if filters.Action != "" {
		where += fmt.Sprintf(" AND action = $%d", len(args)+1)
		args = append(args, filters.Action)
	}

	var total int64
	if err := r.q(ctx).GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	limit, offset := filters.Normalize()
	query := fmt.Sprintf(
		"SELECT id, tenant_id, user_id, action, entity_type, entity_id, before, after, created_at%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	var logs []*model.AuditLog
	if err := r.q(ctx).SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}
