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

type customerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) repository.CustomerRepository {
	return &customerRepository{store: store}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	defer r.store.enter(ctx)()
	copied := *customer
	r.store.state.customers[customer.ID] = &copied
	return nil
}

func (r *customerRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error) {
	defer r.store.enter(ctx)()
	customer, ok := r.store.state.customers[id]
	if !ok || customer.TenantID != tenantID || customer.DeletedAt != nil {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

func (r *customerRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.CustomerFilters) ([]*model.Customer, int64, error) {
	defer r.store.enter(ctx)()

	q := strings.ToLower(filters.Query)
	var matches []*model.Customer
	for _, customer := range r.store.state.customers {
		if customer.TenantID != tenantID || customer.DeletedAt != nil {
			continue
		}
		if q != "" {
			hit := strings.Contains(strings.ToLower(customer.Name), q)
			if !hit && customer.Phone != nil {
				hit = strings.Contains(strings.ToLower(*customer.Phone), q)
			}
			if !hit && customer.Email != nil {
				hit = strings.Contains(strings.ToLower(*customer.Email), q)
			}
			if !hit {
				continue
			}
		}
		copied := *customer
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })

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

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	defer r.store.enter(ctx)()
	existing, ok := r.store.state.customers[customer.ID]
	if !ok || existing.TenantID != customer.TenantID {
		return fmt.Errorf("customer %s not found", customer.ID)
	}
	copied := *customer
	r.store.state.customers[customer.ID] = &copied
	return nil
}

func (r *customerRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Customer, error) {
	defer r.store.enter(ctx)()

	var oldest *model.Customer
	for _, customer := range r.store.state.customers {
		if customer.TenantID != tenantID || customer.DeletedAt != nil {
			continue
		}
		if customer.Phone == nil || *customer.Phone != phone {
			continue
		}
		if oldest == nil || customer.CreatedAt.Before(oldest.CreatedAt) {
			oldest = customer
		}
	}
	if oldest == nil {
		return nil, nil
	}
	copied := *oldest
	return &copied, nil
}
