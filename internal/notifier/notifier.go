// Package notifier consumes domain events and sends the emails they call for.
package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
)

// WelcomeSender is satisfied by *mailer.Mailer.
type WelcomeSender interface {
	SendWelcome(recipient, displayName string) error
}

// Notifier handles messages from the events queue.
type Notifier struct {
	mail   WelcomeSender
	logger *zap.Logger
}

// New creates a Notifier.
func New(mail WelcomeSender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{mail: mail, logger: logger}
}

// Handle processes one message. Undecodable messages and failed sends return
// an error so the broker rejects them; other event types are acknowledged.
func (n *Notifier) Handle(_ context.Context, body []byte) error {
	event, err := core.DecodeEvent(body)
	if err != nil {
		n.logger.Warn("Dropping malformed event", zap.Error(err))
		return err
	}

	switch event.Type {
	case core.EventUserSignedUp:
		if event.Email == "" {
			n.logger.Warn("Sign-up event without email", zap.String("userID", event.UID))
			return nil
		}
		if err := n.mail.SendWelcome(event.Email, event.DisplayName); err != nil {
			return fmt.Errorf("failed to send welcome email to %s: %w", event.UID, err)
		}
		n.logger.Info("Welcome email sent", zap.String("userID", event.UID))
	case core.EventListEntryAdded, core.EventListEntryRemoved:
		n.logger.Debug("List change",
			zap.String("type", event.Type),
			zap.String("userID", event.UID),
			zap.String("category", string(event.Category)),
			zap.Int("movieID", event.MovieID))
	default:
		n.logger.Debug("Ignoring event", zap.String("type", event.Type))
	}
	return nil
}
