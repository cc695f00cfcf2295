// Package notify is a session-scoped event bus. Publishers and subscribers are
// keyed by session so events never leak across sessions, replacing the old
// process-wide broadcast.
package notify

import "sync"

// Event kinds emitted by the reservation engine.
const (
	KindSessionOpened = "session.opened"
	KindDraftUpdated  = "draft.updated"
	KindStateChanged  = "state.changed"
	KindOrderCreated  = "order.created"
	KindPaymentStatus = "payment.status"
	KindSessionClosed = "session.closed"
)

// Event is one notification delivered to a session's subscribers.
type Event struct {
	SessionID string `json:"sessionId"`
	Kind      string `json:"kind"`
	Payload   any    `json:"payload,omitempty"`
}

// Bus fans events out to per-session subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers for a session's events. The returned function removes the
// subscription and closes the channel; callers must invoke it when done.
func (b *Bus) Subscribe(sessionID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, 16)
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[int]chan Event)
	}
	b.subs[sessionID][id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if listeners, ok := b.subs[sessionID]; ok {
			if ch, ok := listeners[id]; ok {
				delete(listeners, id)
				close(ch)
			}
			if len(listeners) == 0 {
				delete(b.subs, sessionID)
			}
		}
	}
	return ch, unsubscribe
}

// Publish delivers an event to the session's subscribers. Slow subscribers with
// a full buffer miss the event rather than block the publisher.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[event.SessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}
