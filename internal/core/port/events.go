package port

import (
	"chunkvault/internal/core/domain"
	"context"
)

// EventPublisher is an interface to define a session event publisher (kafka, nats, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SessionEvent) error
	Close() error
}
