package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
	"github.com/salonkit/scheduler-api/internal/repository/memory"
	"github.com/salonkit/scheduler-api/pkg/logger"
	"github.com/salonkit/scheduler-api/pkg/metrics"
	"github.com/salonkit/scheduler-api/pkg/worker"
)

// One shared registration; promauto panics on duplicate collectors.
var testMetrics = metrics.NewMetrics("outbox_test")

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	failures  int
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) channels() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.published...)
}

func quietLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func seedEvent(t *testing.T, repo repository.OutboxRepository, eventType string) {
	t.Helper()
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{}`),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), event))
}

func runUntil(t *testing.T, processor *worker.OutboxProcessor, done func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go processor.Start(ctx)
	defer cancel()

	deadline := time.After(5 * time.Second)
	for !done() {
		select {
		case <-deadline:
			t.Fatal("processor did not drain in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestProcessorPublishesAndMarksProcessed(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewOutboxRepository(store)
	broker := &fakeBroker{}

	seedEvent(t, repo, model.EventAppointmentCreated)
	seedEvent(t, repo, model.EventAppointmentDeleted)

	processor := worker.NewOutboxProcessor(repo, broker, worker.OutboxProcessorConfig{
		PollInterval: 10 * time.Millisecond,
		RetryDelay:   time.Millisecond,
	}, quietLogger(), testMetrics)

	runUntil(t, processor, func() bool { return len(broker.channels()) == 2 })

	pending, err := repo.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.ElementsMatch(t, []string{model.EventAppointmentCreated, model.EventAppointmentDeleted}, broker.channels())
}

func TestProcessorRetriesTransientFailure(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewOutboxRepository(store)
	broker := &fakeBroker{failures: 2}

	seedEvent(t, repo, model.EventAppointmentCreated)

	processor := worker.NewOutboxProcessor(repo, broker, worker.OutboxProcessorConfig{
		PollInterval:  10 * time.Millisecond,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, quietLogger(), testMetrics)

	runUntil(t, processor, func() bool { return len(broker.channels()) == 1 })

	pending, err := repo.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessorMarksFailedAfterRetriesExhausted(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewOutboxRepository(store)
	broker := &fakeBroker{failures: 100}

	seedEvent(t, repo, model.EventAppointmentCreated)

	processor := worker.NewOutboxProcessor(repo, broker, worker.OutboxProcessorConfig{
		PollInterval:  10 * time.Millisecond,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, quietLogger(), testMetrics)

	drained := func() bool {
		pending, err := repo.FetchPending(context.Background(), 10)
		require.NoError(t, err)
		return len(pending) == 0
	}
	runUntil(t, processor, drained)

	// Failed events stay out of the pending queue; nothing was published.
	assert.Empty(t, broker.channels())
}
