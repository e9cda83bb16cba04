package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
	"github.com/salonkit/scheduler-api/internal/service/audit"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

// Service manages the tenant's bookable service catalog.
type Service struct {
	repo    repository.ServiceRepository
	auditor *audit.Service
	txm     repository.TxManager
}

func NewService(repo repository.ServiceRepository, auditor *audit.Service, txm repository.TxManager) *Service {
	return &Service{repo: repo, auditor: auditor, txm: txm}
}

func (s *Service) Create(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	svc := &model.Service{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Name:            strings.TrimSpace(req.Name),
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, svc); err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		return s.auditor.Record(ctx, tenantID, model.AuditActionCreated, model.AuditEntityService, svc.ID, nil, audit.ServiceSnapshot(svc))
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil {
		return nil, apperrors.ServiceNotFound()
	}
	return svc, nil
}

func (s *Service) List(ctx context.Context, filters *model.ServiceFilters) (*model.Page, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		filters = &model.ServiceFilters{}
	}
	if err := validateSort(filters.Sort, filters.Order); err != nil {
		return nil, err
	}
	items, total, err := s.repo.List(ctx, tenantID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if items == nil {
		items = []*model.Service{}
	}
	return &model.Page{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *model.Service
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		svc, err := s.repo.Get(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("failed to get service: %w", err)
		}
		if svc == nil {
			return apperrors.ServiceNotFound()
		}

		before := audit.ServiceSnapshot(svc)

		if req.Name != nil {
			svc.Name = strings.TrimSpace(*req.Name)
		}
		if req.PriceCents != nil {
			svc.PriceCents = *req.PriceCents
		}
		if req.DurationMinutes != nil {
			svc.DurationMinutes = *req.DurationMinutes
		}
		if req.IsActive != nil {
			svc.IsActive = *req.IsActive
		}

		if err := s.repo.Update(ctx, svc); err != nil {
			return fmt.Errorf("failed to update service: %w", err)
		}
		updated = svc
		return s.auditor.Record(ctx, tenantID, model.AuditActionUpdated, model.AuditEntityService, svc.ID, before, audit.ServiceSnapshot(svc))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Deactivate retires a service from the catalog. Existing appointments
// referencing it keep working; new bookings are rejected.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return err
	}

	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		svc, err := s.repo.Get(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("failed to get service: %w", err)
		}
		if svc == nil {
			return apperrors.ServiceNotFound()
		}
		if !svc.IsActive {
			return nil
		}

		before := audit.ServiceSnapshot(svc)
		svc.IsActive = false
		if err := s.repo.Update(ctx, svc); err != nil {
			return fmt.Errorf("failed to deactivate service: %w", err)
		}
		return s.auditor.Record(ctx, tenantID, model.AuditActionDeleted, model.AuditEntityService, svc.ID, before, audit.ServiceSnapshot(svc))
	})
}

var serviceSortFields = map[string]bool{
	"name":             true,
	"price_cents":      true,
	"duration_minutes": true,
	"created_at":       true,
}

func validateSort(sort, order string) error {
	if sort != "" && !serviceSortFields[sort] {
		return apperrors.InvalidSortField(sort)
	}
	switch order {
	case "", "asc", "desc":
		return nil
	default:
		return apperrors.InvalidSortOrder(order)
	}
}

