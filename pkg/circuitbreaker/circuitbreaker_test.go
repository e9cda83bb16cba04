package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/pkg/circuitbreaker"
)

var errDownstream = errors.New("downstream unavailable")

func failing() error { return errDownstream }
func succeeding() error { return nil }

func TestTripsAfterMaxFailures(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.Settings{
		MaxFailures: 3,
		Timeout:     time.Minute,
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errDownstream)
	}

	// Open: calls are refused without reaching the function.
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.False(t, called)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.Settings{
		MaxFailures: 2,
		Timeout:     time.Minute,
	})

	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(succeeding))
	require.Error(t, cb.Execute(failing))

	// The earlier failure was forgotten, so the breaker is still closed.
	assert.NoError(t, cb.Execute(succeeding))
}

func TestHalfOpenProbe(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.Settings{
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	require.Error(t, cb.Execute(failing))
	assert.ErrorIs(t, cb.Execute(succeeding), circuitbreaker.ErrOpen)

	time.Sleep(15 * time.Millisecond)

	// A failed probe re-opens the breaker.
	assert.ErrorIs(t, cb.Execute(failing), errDownstream)
	assert.ErrorIs(t, cb.Execute(succeeding), circuitbreaker.ErrOpen)

	time.Sleep(15 * time.Millisecond)

	// A successful probe closes it.
	require.NoError(t, cb.Execute(succeeding))
	assert.NoError(t, cb.Execute(succeeding))
}

func TestDefaultsApplied(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.Settings{Name: "redis"})

	for i := 0; i < 4; i++ {
		require.Error(t, cb.Execute(failing))
	}
	// Below the default threshold of 5 the breaker stays closed.
	assert.ErrorIs(t, cb.Execute(failing), errDownstream)
	assert.ErrorIs(t, cb.Execute(succeeding), circuitbreaker.ErrOpen)
}
