// Package broadcast fans entry mutations out to connected viewers.
package broadcast

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jskopek/shellviz/modules/core/entries"
)

// Subscriber handles one published entry. Handlers run synchronously on
// the publisher's goroutine, so a handler must not block; the WebSocket
// hub hands entries to per-client buffered channels.
type Subscriber func(entry entries.Entry)

// Bus delivers every published entry to all current subscribers.
// Delivery is best-effort: there is no buffering or replay for
// subscribers that arrive late.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
}

// NewBus creates a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]Subscriber),
	}
}

// Subscribe registers a handler for future broadcasts and returns its
// subscription id.
func (b *Bus) Subscribe(handler Subscriber) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subscribers[id] = handler
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, id)
}

// Publish delivers entry to every current subscriber. Handlers are
// invoked synchronously: as long as publishers are serialized (the
// store publishes under its own lock), every subscriber observes
// mutations in store apply order.
func (b *Bus) Publish(entry entries.Entry) {
	b.mu.RLock()
	handlers := make([]Subscriber, 0, len(b.subscribers))
	for _, handler := range b.subscribers {
		handlers = append(handlers, handler)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(entry)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
