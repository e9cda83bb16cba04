package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
)

type locationRepository struct {
	store *Store
}

func NewLocationRepository(store *Store) repository.LocationRepository {
	return &locationRepository{store: store}
}

func (r *locationRepository) Create(ctx context.Context, loc *model.Location) error {
	defer r.store.enter(ctx)()
	copied := *loc
	r.store.state.locations[loc.ID] = &copied
	return nil
}

func (r *locationRepository) Get(ctx context.Context, tenantID, id uuid.UUID, includeDeleted bool) (*model.Location, error) {
	defer r.store.enter(ctx)()
	loc, ok := r.store.state.locations[id]
	if !ok || loc.TenantID != tenantID {
		return nil, nil
	}
	if !includeDeleted && loc.DeletedAt != nil {
		return nil, nil
	}
	copied := *loc
	return &copied, nil
}

func (r *locationRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.LocationFilters) ([]*model.Location, error) {
	defer r.store.enter(ctx)()

	var locations []*model.Location
	for _, loc := range r.store.state.locations {
		if loc.TenantID != tenantID {
			continue
		}
		if !filters.IncludeInactive && !loc.IsActive {
			continue
		}
		if !filters.IncludeDeleted && loc.DeletedAt != nil {
			continue
		}
		copied := *loc
		locations = append(locations, &copied)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].CreatedAt.Before(locations[j].CreatedAt) })
	return locations, nil
}

func (r *locationRepository) Update(ctx context.Context, loc *model.Location) error {
	defer r.store.enter(ctx)()
	existing, ok := r.store.state.locations[loc.ID]
	if !ok || existing.TenantID != loc.TenantID {
		return fmt.Errorf("location %s not found", loc.ID)
	}
	copied := *loc
	r.store.state.locations[loc.ID] = &copied
	return nil
}

func (r *locationRepository) OldestActive(ctx context.Context, tenantID uuid.UUID) (*model.Location, error) {
	defer r.store.enter(ctx)()

	var oldest *model.Location
	for _, loc := range r.store.state.locations {
		if loc.TenantID != tenantID || !loc.IsActive || loc.DeletedAt != nil {
			continue
		}
		if oldest == nil || loc.CreatedAt.Before(oldest.CreatedAt) {
			oldest = loc
		}
	}
	if oldest == nil {
		return nil, nil
	}
	copied := *oldest
	return &copied, nil
}
