package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. Publishing is
// best-effort: reminder events are informational, not a delivery guarantee.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
