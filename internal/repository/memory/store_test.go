package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository/memory"
)

func seedCustomer(tenantID uuid.UUID) *model.Customer {
	now := time.Now().UTC()
	return &model.Customer{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      "Ada",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewCustomerRepository(store)
	tenantID := uuid.New()
	ctx := context.Background()

	kept := seedCustomer(tenantID)
	require.NoError(t, repo.Create(ctx, kept))

	boom := errors.New("boom")
	discarded := seedCustomer(tenantID)
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, discarded); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, tenantID, kept.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = repo.Get(ctx, tenantID, discarded.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewCustomerRepository(store)
	tenantID := uuid.New()
	ctx := context.Background()

	created := seedCustomer(tenantID)
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, created)
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestWithinTxNestingJoinsOuterUnit(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewCustomerRepository(store)
	tenantID := uuid.New()
	ctx := context.Background()

	inner := seedCustomer(tenantID)
	boom := errors.New("outer failure")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if err := store.WithinTx(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, inner)
		}); err != nil {
			return err
		}
		// The nested call committed nothing on its own.
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, tenantID, inner.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryReturnsCopies(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewCustomerRepository(store)
	tenantID := uuid.New()
	ctx := context.Background()

	created := seedCustomer(tenantID)
	require.NoError(t, repo.Create(ctx, created))

	got, err := repo.Get(ctx, tenantID, created.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.Get(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name)
}
