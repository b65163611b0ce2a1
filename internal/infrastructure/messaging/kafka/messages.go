// Package kafka provides the event bus used by the intelligence
// pipeline: a producer for report lifecycle events and a consumer-group
// worker that dispatches them to registered handlers.
package kafka

import (
	"context"
	"time"
)

// Message is the transport-neutral view of a consumed record handed to
// handlers.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes a single consumed message. Returning an error
// triggers the consumer's retry policy.
type Handler func(ctx context.Context, msg *Message) error
