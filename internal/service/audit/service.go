// Package audit writes the immutable before/after trail of entity mutations.
// Every mutating service call records exactly one entry, inside the same
// transaction as the mutation it describes.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Record appends one audit entry. The actor is taken from the context when
// one is set; before is nil for creations.
func (s *Service) Record(ctx context.Context, tenantID uuid.UUID, action, entityType string, entityID uuid.UUID, before, after model.JSONMap) error {
	var beforeJSON, afterJSON json.RawMessage
	var err error

	if before != nil {
		beforeJSON, err = json.Marshal(before)
		if err != nil {
			return fmt.Errorf("failed to marshal before snapshot: %w", err)
		}
	}
	if after != nil {
		afterJSON, err = json.Marshal(after)
		if err != nil {
			return fmt.Errorf("failed to marshal after snapshot: %w", err)
		}
	}

	entry := &model.AuditLog{
		ID:         uuid.New(),
		TenantID:   tenantID,
		UserID:     tenant.Actor(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     beforeJSON,
		After:      afterJSON,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filters *model.AuditLogFilters) ([]*model.AuditLog, int64, error) {
	return s.repo.List(ctx, tenantID, filters)
}
