package messaging

import "context"

// Broker publishes domain events to interested consumers. The outbox worker
// is the only producer; channel names follow the outbox event types
// (appointment.created, appointment.updated, ...).
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
