package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
)

type serviceRepository struct {
	store *Store
}

func NewServiceRepository(store *Store) repository.ServiceRepository {
	return &serviceRepository{store: store}
}

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	defer r.store.enter(ctx)()
	copied := *svc
	r.store.state.services[svc.ID] = &copied
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Service, error) {
	defer r.store.enter(ctx)()
	svc, ok := r.store.state.services[id]
	if !ok || svc.TenantID != tenantID || svc.DeletedAt != nil {
		return nil, nil
	}
	copied := *svc
	return &copied, nil
}

func (r *serviceRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.ServiceFilters) ([]*model.Service, int64, error) {
	defer r.store.enter(ctx)()

	var matches []*model.Service
	for _, svc := range r.store.state.services {
		if svc.TenantID != tenantID || svc.DeletedAt != nil {
			continue
		}
		if !filters.IncludeInactive && !svc.IsActive {
			continue
		}
		if filters.Query != "" && !strings.Contains(strings.ToLower(svc.Name), strings.ToLower(filters.Query)) {
			continue
		}
		copied := *svc
		matches = append(matches, &copied)
	}

	less := func(a, b *model.Service) bool {
		switch filters.Sort {
		case "name":
			return a.Name < b.Name
		case "price_cents":
			return a.PriceCents < b.PriceCents
		case "duration_minutes":
			return a.DurationMinutes < b.DurationMinutes
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if filters.Order == "desc" {
			return less(matches[j], matches[i])
		}
		return less(matches[i], matches[j])
	})

	total := int64(len(matches))
	limit, offset := filters.Normalize()
	if offset >= len(matches) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	defer r.store.enter(ctx)()
	existing, ok := r.store.state.services[svc.ID]
	if !ok || existing.TenantID != svc.TenantID {
		return fmt.Errorf("service %s not found", svc.ID)
	}
	copied := *svc
	r.store.state.services[svc.ID] = &copied
	return nil
}
