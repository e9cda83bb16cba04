package customer

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

// Service manages the tenant's customer directory.
type Service struct {
	repo    repository.CustomerRepository
	auditor *audit.Service
	txm     repository.TxManager
}

func NewService(repo repository.CustomerRepository, auditor *audit.Service, txm repository.TxManager) *Service {
	return &Service{repo: repo, auditor: auditor, txm: txm}
}

func (s *Service) Create(ctx context.Context, req *model.CreateCustomerRequest) (*model.Customer, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &model.Customer{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     trimPtr(req.Phone),
		Email:     normalizeEmail(req.Email),
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, customer); err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		return s.auditor.Record(ctx, tenantID, model.AuditActionCreated, model.AuditEntityCustomer, customer.ID, nil, audit.CustomerSnapshot(customer))
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, apperrors.CustomerNotFound()
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, filters *model.CustomerFilters) (*model.Page, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		filters = &model.CustomerFilters{}
	}
	items, total, err := s.repo.List(ctx, tenantID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if items == nil {
		items = []*model.Customer{}
	}
	return &model.Page{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

// FindByPhone looks a customer up by exact phone match, used by walk-in
// booking flows. Returns nil when no customer matches.
func (s *Service) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByPhone(ctx, tenantID, strings.TrimSpace(phone))
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCustomerRequest) (*model.Customer, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *model.Customer
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.repo.Get(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}
		if customer == nil {
			return apperrors.CustomerNotFound()
		}

		before := audit.CustomerSnapshot(customer)

		if req.Name != nil {
			customer.Name = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			customer.Phone = trimPtr(req.Phone)
		}
		if req.Email != nil {
			customer.Email = normalizeEmail(req.Email)
		}
		if req.Notes != nil {
			customer.Notes = req.Notes
		}
		customer.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, customer); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}
		updated = customer
		return s.auditor.Record(ctx, tenantID, model.AuditActionUpdated, model.AuditEntityCustomer, customer.ID, before, audit.CustomerSnapshot(customer))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes the customer. Past appointments keep their reference;
// the customer simply stops appearing in lists and lookups.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return err
	}

	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.repo.Get(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}
		if customer == nil {
			return apperrors.CustomerNotFound()
		}

		before := audit.CustomerSnapshot(customer)
		now := time.Now().UTC()
		customer.DeletedAt = &now
		customer.UpdatedAt = now

		if err := s.repo.Update(ctx, customer); err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		return s.auditor.Record(ctx, tenantID, model.AuditActionDeleted, model.AuditEntityCustomer, customer.ID, before, audit.CustomerSnapshot(customer))
	})
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeEmail(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*p))
	if v == "" {
		return nil
	}
	return &v
}
