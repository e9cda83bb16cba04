package customer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository/memory"
	"github.com/salonkit/scheduler-api/internal/service/audit"
	"github.com/salonkit/scheduler-api/internal/service/customer"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

func newService(t *testing.T) (*customer.Service, context.Context) {
	t.Helper()
	store := memory.NewStore()
	auditor := audit.NewService(memory.NewAuditRepository(store))
	svc := customer.NewService(memory.NewCustomerRepository(store), auditor, store)

	ctx, err := tenant.WithID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	return svc, ctx
}

func TestCreateNormalizesContactDetails(t *testing.T) {
	svc, ctx := newService(t)

	phone := "  +44 7700 900123  "
	email := " Ada@Example.COM "
	created, err := svc.Create(ctx, &model.CreateCustomerRequest{
		Name:  "  Ada Lovelace  ",
		Phone: &phone,
		Email: &email,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", created.Name)
	require.NotNil(t, created.Phone)
	assert.Equal(t, "+44 7700 900123", *created.Phone)
	require.NotNil(t, created.Email)
	assert.Equal(t, "ada@example.com", *created.Email)
}

func TestFindByPhone(t *testing.T) {
	svc, ctx := newService(t)

	phone := "+44 7700 900123"
	created, err := svc.Create(ctx, &model.CreateCustomerRequest{Name: "Ada", Phone: &phone})
	require.NoError(t, err)

	found, err := svc.FindByPhone(ctx, "  +44 7700 900123 ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := svc.FindByPhone(ctx, "+44 7700 000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSoftDeleteHidesCustomer(t *testing.T) {
	svc, ctx := newService(t)

	phone := "+44 7700 900456"
	created, err := svc.Create(ctx, &model.CreateCustomerRequest{Name: "Grace", Phone: &phone})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeCustomerNotFound))

	found, err := svc.FindByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Nil(t, found)

	page, err := svc.List(ctx, &model.CustomerFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)

	err = svc.Delete(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeCustomerNotFound))
}

func TestUpdateClearsBlankPhone(t *testing.T) {
	svc, ctx := newService(t)

	phone := "+44 7700 900789"
	created, err := svc.Create(ctx, &model.CreateCustomerRequest{Name: "Joan", Phone: &phone})
	require.NoError(t, err)

	blank := "   "
	updated, err := svc.Update(ctx, created.ID, &model.UpdateCustomerRequest{Phone: &blank})
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)
	assert.Equal(t, "Joan", updated.Name)
}

func TestListQueryMatchesName(t *testing.T) {
	svc, ctx := newService(t)

	for _, name := range []string{"Ada Lovelace", "Grace Hopper", "Adele Goldberg"} {
		_, err := svc.Create(ctx, &model.CreateCustomerRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, &model.CustomerFilters{Query: "ad"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}
