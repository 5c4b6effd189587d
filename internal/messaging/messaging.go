package messaging

import "context"

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Nop discards every event, used when no broker is configured.
type Nop struct{}

func (Nop) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	return nil
}
