// Package location is the directory of a tenant's venues and their overlap
// policy. Every tenant always resolves to at least one active default
// location, created lazily on first use.
package location

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

type Service struct {
	repo    repository.LocationRepository
	auditor *audit.Service
	txm     repository.TxManager
}

func NewService(repo repository.LocationRepository, auditor *audit.Service, txm repository.TxManager) *Service {
	return &Service{repo: repo, auditor: auditor, txm: txm}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeEmail(s *string) *string {
	if s == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*s))
	if normalized == "" {
		return nil
	}
	return &normalized
}

func (s *Service) Create(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	loc := &model.Location{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Name:         strings.TrimSpace(req.Name),
		Timezone:     strings.TrimSpace(req.Timezone),
		AddressLine1: trimPtr(req.AddressLine1),
		AddressLine2: trimPtr(req.AddressLine2),
		City:         trimPtr(req.City),
		Postcode:     trimPtr(req.Postcode),
		Country:      trimPtr(req.Country),
		Phone:        trimPtr(req.Phone),
		Email:        normalizeEmail(req.Email),
		IsActive:     true,
		HoursJSON:    req.HoursJSON,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}
	if req.AllowOverlaps != nil {
		loc.AllowOverlaps = *req.AllowOverlaps
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, loc); err != nil {
			return err
		}
		return s.auditor.Record(ctx, tenantID, model.AuditActionCreated, model.AuditEntityLocation,
			loc.ID, nil, audit.LocationSnapshot(loc))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return loc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.repo.Get(ctx, tenantID, id, false)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperrors.LocationNotFound()
	}
	return loc, nil
}

func (s *Service) List(ctx context.Context, filters *model.LocationFilters) ([]*model.Location, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, tenantID, filters)
}

// EnsureDefault resolves the tenant's default location: the oldest active,
// non-deleted one, or a fresh default when the tenant has none. Concurrent
// callers may both create a default; that is benign because resolution always
// re-reads the oldest row, so later calls converge on a single winner.
func (s *Service) EnsureDefault(ctx context.Context) (*model.Location, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.OldestActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return current, nil
	}

	return s.Create(ctx, &model.CreateLocationRequest{
		Name:     model.DefaultLocationName,
		Timezone: "UTC",
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateLocationRequest) (*model.Location, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *model.Location
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		loc, err := s.repo.Get(ctx, tenantID, id, true)
		if err != nil {
			return err
		}
		if loc == nil {
			return apperrors.LocationNotFound()
		}
		before := audit.LocationSnapshot(loc)

		if req.Name != nil {
			loc.Name = strings.TrimSpace(*req.Name)
		}
		if req.Timezone != nil {
			loc.Timezone = strings.TrimSpace(*req.Timezone)
		}
		if req.AddressLine1 != nil {
			loc.AddressLine1 = trimPtr(req.AddressLine1)
		}
		if req.AddressLine2 != nil {
			loc.AddressLine2 = trimPtr(req.AddressLine2)
		}
		if req.City != nil {
			loc.City = trimPtr(req.City)
		}
		if req.Postcode != nil {
			loc.Postcode = trimPtr(req.Postcode)
		}
		if req.Country != nil {
			loc.Country = trimPtr(req.Country)
		}
		if req.Phone != nil {
			loc.Phone = trimPtr(req.Phone)
		}
		if req.Email != nil {
			loc.Email = normalizeEmail(req.Email)
		}
		if req.IsActive != nil {
			loc.IsActive = *req.IsActive
		}
		if req.HoursJSON != nil {
			loc.HoursJSON = req.HoursJSON
		}
		if req.AllowOverlaps != nil {
			loc.AllowOverlaps = *req.AllowOverlaps
		}
		loc.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, loc); err != nil {
			return err
		}
		if err := s.auditor.Record(ctx, tenantID, model.AuditActionUpdated, model.AuditEntityLocation,
			loc.ID, before, audit.LocationSnapshot(loc)); err != nil {
			return err
		}
		updated = loc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes and deactivates the location. Deleting an already
// deleted location is a no-op.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return err
	}

	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		loc, err := s.repo.Get(ctx, tenantID, id, true)
		if err != nil {
			return err
		}
		if loc == nil {
			return apperrors.LocationNotFound()
		}
		if loc.DeletedAt != nil {
			return nil
		}

		before := audit.LocationSnapshot(loc)
		now := time.Now().UTC()
		loc.IsActive = false
		loc.DeletedAt = &now
		loc.UpdatedAt = now

		if err := s.repo.Update(ctx, loc); err != nil {
			return err
		}
		return s.auditor.Record(ctx, tenantID, model.AuditActionDeleted, model.AuditEntityLocation,
			loc.ID, before, audit.LocationSnapshot(loc))
	})
}
