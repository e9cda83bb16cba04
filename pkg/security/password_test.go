package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/pkg/security"
)

func TestHashAndCompare(t *testing.T) {
	hasher := security.NewBcryptHasher(4)

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := security.NewBcryptHasher(4)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, security.ErrPasswordTooShort)
}

func TestHashesAreSalted(t *testing.T) {
	hasher := security.NewBcryptHasher(4)

	first, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	second, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, hasher.Compare(first, "correct horse battery"))
	assert.NoError(t, hasher.Compare(second, "correct horse battery"))
}
