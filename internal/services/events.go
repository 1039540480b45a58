package services

import (
	"context"
	"log"
)

// Domain event types published after a successful commit.
const (
	EventBookCreated    = "book.created"
	EventBookUpdated    = "book.updated"
	EventBookDeleted    = "book.deleted"
	EventReserveCreated = "reserve.created"
	EventReserveUpdated = "reserve.updated"
	EventReserveDeleted = "reserve.deleted"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, data any) error
}

// publish is best effort. A broker failure never fails the operation that
// already committed.
func publish(ctx context.Context, p EventPublisher, eventType string, data any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
