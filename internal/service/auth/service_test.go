package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository/memory"
	"github.com/salonkit/scheduler-api/internal/service/auth"
	pkgauth "github.com/salonkit/scheduler-api/pkg/auth"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

func newService(t *testing.T) (*auth.Service, *pkgauth.JWTService, context.Context) {
	t.Helper()
	store := memory.NewStore()
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	svc := auth.NewService(memory.NewUserRepository(store), jwtSvc, store)

	ctx, err := tenant.WithID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	return svc, jwtSvc, ctx
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwtSvc, ctx := newService(t)

	user, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    " Ada@Example.COM ",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)

	claims, err := jwtSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.TenantID.String(), claims.TenantID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, ctx := newService(t)

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &model.RegisterRequest{
		Email:    "ADA@example.com",
		Password: "another password",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestRegisterSameEmailAcrossTenants(t *testing.T) {
	svc, _, ctx := newService(t)

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	otherCtx, err := tenant.WithID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	_, err = svc.Register(otherCtx, &model.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	assert.NoError(t, err)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _, ctx := newService(t)

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong password",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestLoginScopedToTenant(t *testing.T) {
	svc, _, ctx := newService(t)

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	otherCtx, err := tenant.WithID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	_, err = svc.Login(otherCtx, &model.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}
