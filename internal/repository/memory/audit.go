package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
)

type auditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) repository.AuditRepository {
	return &auditRepository{store: store}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	defer r.store.enter(ctx)()
	copied := *entry
	r.store.state.auditLogs = append(r.store.state.auditLogs, &copied)
	return nil
}

func (r *auditRepository) List(ctx context.Context, tenantID uuid.UUID, filters *model.AuditLogFilters) ([]*model.AuditLog, int64, error) {
	defer r.store.enter(ctx)()

	var matches []*model.AuditLog
	// Newest first: entries are appended in commit order.
	for i := len(r.store.state.auditLogs) - 1; i >= 0; i-- {
		entry := r.store.state.auditLogs[i]
		if entry.TenantID != tenantID {
			continue
		}
		if filters.EntityType != "" && entry.EntityType != filters.EntityType {
			continue
		}
		if filters.EntityID != nil && entry.EntityID != *filters.EntityID {
			continue
		}
		if filters.Action != "" && entry.Action != filters.Action {
			continue
		}
		copied := *entry
		matches = append(matches, &copied)
	}

	total := int64(len(matches))
	limit, offset := filters.Normalize()
	if offset >= len(matches) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

type outboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) repository.OutboxRepository {
	return &outboxRepository{store: store}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	defer r.store.enter(ctx)()
	copied := *event
	r.store.state.outbox = append(r.store.state.outbox, &copied)
	return nil
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	defer r.store.enter(ctx)()

	var pending []*model.OutboxEvent
	for _, event := range r.store.state.outbox {
		if event.Status != model.OutboxStatusPending {
			continue
		}
		copied := *event
		pending = append(pending, &copied)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	defer r.store.enter(ctx)()
	return r.setStatus(id, model.OutboxStatusProcessed, nil)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	defer r.store.enter(ctx)()
	return r.setStatus(id, model.OutboxStatusFailed, &errMsg)
}

func (r *outboxRepository) setStatus(id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	for _, event := range r.store.state.outbox {
		if event.ID != id {
			continue
		}
		event.Status = status
		event.ErrorMessage = errMsg
		if errMsg != nil {
			event.RetryCount++
		} else {
			now := time.Now().UTC()
			event.ProcessedAt = &now
		}
		return nil
	}
	return fmt.Errorf("outbox event %s not found", id)
}

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	defer r.store.enter(ctx)()
	copied := *user
	r.store.state.users[user.ID] = &copied
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.User, error) {
	defer r.store.enter(ctx)()
	for _, user := range r.store.state.users {
		if user.TenantID == tenantID && user.Email == email && user.DeletedAt == nil {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}
