package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)

	userID := uuid.New()
	tenantID := uuid.New()
	token, err := svc.GenerateToken(userID, tenantID, "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signer := auth.NewJWTService("secret-a", time.Hour)
	verifier := auth.NewJWTService("secret-b", time.Hour)

	token, err := signer.GenerateToken(uuid.New(), uuid.New(), "ada@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := auth.NewJWTService("test-secret", -time.Hour)

	// Zero or negative expiry falls back to the 24h default, so build an
	// expired token with an explicitly short-lived service instead.
	short := auth.NewJWTService("test-secret", time.Millisecond)
	token, err := short.GenerateToken(uuid.New(), uuid.New(), "ada@example.com")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := auth.NewJWTService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}
