package messagequeue

import "context"

// Handler processes one message body. A returned error rejects the message.
type Handler func(ctx context.Context, body []byte) error

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	// Consume blocks, delivering messages to handler until ctx is cancelled
	// or the delivery channel closes.
	Consume(ctx context.Context, queueName string, handler Handler) error
	Close() error
}

// NoopQueue discards published messages. It is used when no broker is configured.
type NoopQueue struct{}

func (NoopQueue) Publish(context.Context, string, []byte) error { return nil }

func (NoopQueue) Consume(ctx context.Context, _ string, _ Handler) error {
	<-ctx.Done()
	return nil
}

func (NoopQueue) Close() error { return nil }
