package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/pkg/messagequeue"
)

// Event types published to the events queue.
const (
	EventUserSignedUp     = "user.signed_up"
	EventListEntryAdded   = "list.entry_added"
	EventListEntryRemoved = "list.entry_removed"
)

// Event is the JSON message carried on the events queue.
type Event struct {
	Type        string          `json:"type"`
	UID         string          `json:"uid"`
	Email       string          `json:"email,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	MovieID     int             `json:"movieId,omitempty"`
	Title       string          `json:"title,omitempty"`
	Category    models.Category `json:"category,omitempty"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// queuePublisher implements EventPublisher over a MessageQueue.
type queuePublisher struct {
	queue     messagequeue.MessageQueue
	queueName string
	now       func() time.Time
}

// NewEventPublisher creates an EventPublisher that writes to queueName.
func NewEventPublisher(queue messagequeue.MessageQueue, queueName string) EventPublisher {
	return &queuePublisher{queue: queue, queueName: queueName, now: time.Now}
}

// Publish encodes event and sends it. A zero OccurredAt is set to now.
func (p *queuePublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	if err := p.queue.Publish(ctx, p.queueName, body); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

// DecodeEvent parses a message body produced by Publish.
func DecodeEvent(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return event, nil
}
