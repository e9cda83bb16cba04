package tenant_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

func TestWithIDRoundTrip(t *testing.T) {
	id := uuid.NewString()
	ctx, err := tenant.WithID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, tenant.FromContext(ctx))

	got, err := tenant.Require(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestWithIDRejectsBlank(t *testing.T) {
	_, err := tenant.WithID(context.Background(), "   ")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidTenantID))
}

func TestRequireOnBareContext(t *testing.T) {
	_, err := tenant.Require(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeMissingTenantContext))
}

func TestRequireUUID(t *testing.T) {
	id := uuid.New()
	ctx, err := tenant.WithID(context.Background(), id.String())
	require.NoError(t, err)

	parsed, err := tenant.RequireUUID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	ctx, err = tenant.WithID(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	_, err = tenant.RequireUUID(ctx)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidTenantID))
}

func TestClear(t *testing.T) {
	ctx, err := tenant.WithID(context.Background(), uuid.NewString())
	require.NoError(t, err)

	cleared := tenant.Clear(ctx)
	assert.Empty(t, tenant.FromContext(cleared))
	_, err = tenant.Require(cleared)
	assert.True(t, errors.IsCode(err, errors.CodeMissingTenantContext))
}

func TestActor(t *testing.T) {
	assert.Nil(t, tenant.Actor(context.Background()))

	userID := uuid.New()
	ctx := tenant.WithActor(context.Background(), userID)
	actor := tenant.Actor(ctx)
	require.NotNil(t, actor)
	assert.Equal(t, userID, *actor)

	assert.Nil(t, tenant.Actor(tenant.WithActor(context.Background(), uuid.Nil)))
}

func TestConcurrentTenantsDoNotBleed(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.NewString()
			ctx, err := tenant.WithID(context.Background(), id)
			assert.NoError(t, err)
			for j := 0; j < 100; j++ {
				assert.Equal(t, id, tenant.FromContext(ctx))
			}
		}()
	}
	wg.Wait()
}
