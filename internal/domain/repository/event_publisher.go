package repository

import (
	"context"

	"stablebook-service/internal/domain/entity"
)

// EventPublisher publishes booking lifecycle events to the message broker.
// Publishing is best effort: the booking transaction has already committed
// when events go out, and callers log rather than fail on publish errors.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event entity.BookingEvent) error
	Close() error
}
