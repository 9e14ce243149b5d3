package messaging

import (
	"context"
)

// Broker is the realtime fan-out channel for appointment change events.
// Delivery is at-least-once; subscribers must apply messages
// idempotently.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Envelope wraps a published event with its type tag.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
