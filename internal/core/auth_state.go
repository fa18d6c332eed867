package core

import (
	"sync"

	"github.com/example/watchlist/internal/models"
)

// AuthEvent is an identity change for one visitor. A nil User means the
// visitor signed out; UID is still set so subscribers can drop that user's data.
type AuthEvent struct {
	VisitorID string
	UID       string
	User      *models.User
}

// SignedOut reports whether the event clears the identity.
func (e AuthEvent) SignedOut() bool {
	return e.User == nil
}

type subscription struct {
	id int
	fn func(AuthEvent)
}

// AuthBroadcaster fans identity changes out to subscribers, in subscription order.
type AuthBroadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

// NewAuthBroadcaster creates an AuthBroadcaster with no subscribers.
func NewAuthBroadcaster() *AuthBroadcaster {
	return &AuthBroadcaster{}
}

// Subscribe registers fn. The returned function removes it and may be called more than once.
func (b *AuthBroadcaster) Subscribe(fn func(AuthEvent)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers event to every current subscriber synchronously.
func (b *AuthBroadcaster) Publish(event AuthEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(event)
	}
}
