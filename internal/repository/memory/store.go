// Package memory implements the repository interfaces against in-process
// maps. It backs the service test suites and mirrors the transactional
// behavior of the postgres implementation: a unit of work either commits all
// of its writes or none of them.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
)

type txCtxKey struct{}

type state struct {
	appointments map[uuid.UUID]*model.Appointment
	locations    map[uuid.UUID]*model.Location
	services     map[uuid.UUID]*model.Service
	customers    map[uuid.UUID]*model.Customer
	users        map[uuid.UUID]*model.User
	auditLogs    []*model.AuditLog
	outbox       []*model.OutboxEvent
}

func newState() *state {
	return &state{
		appointments: make(map[uuid.UUID]*model.Appointment),
		locations:    make(map[uuid.UUID]*model.Location),
		services:     make(map[uuid.UUID]*model.Service),
		customers:    make(map[uuid.UUID]*model.Customer),
		users:        make(map[uuid.UUID]*model.User),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, apt := range s.appointments {
		copied := *apt
		c.appointments[id] = &copied
	}
	for id, loc := range s.locations {
		copied := *loc
		c.locations[id] = &copied
	}
	for id, svc := range s.services {
		copied := *svc
		c.services[id] = &copied
	}
	for id, customer := range s.customers {
		copied := *customer
		c.customers[id] = &copied
	}
	for id, user := range s.users {
		copied := *user
		c.users[id] = &copied
	}
	c.auditLogs = append([]*model.AuditLog(nil), s.auditLogs...)
	c.outbox = append([]*model.OutboxEvent(nil), s.outbox...)
	return c
}

// Store is the shared backing for every in-memory repository. One mutex
// serializes units of work, which is stricter than postgres default
// isolation; the unlocked overlap race therefore cannot be reproduced here.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// WithinTx serializes the unit of work and rolls its writes back on error by
// restoring a snapshot taken at entry.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txCtxKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(context.WithValue(ctx, txCtxKey{}, true)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// enter locks the store for a single repository call made outside a
// transaction. Calls inside WithinTx already hold the lock.
func (s *Store) enter(ctx context.Context) func() {
	if ctx.Value(txCtxKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
