// Package live connects the aggregation engine to the database: a
// change bus that services publish to after every mutating write, a
// snapshot source that re-queries full collections per change, and the
// store adapter the engine persists results through.
package live

import (
	"sort"
	"sync"
)

// Bus fans out per-user change signals to subscribers. Signals carry no
// payload, only "this user's data changed": subscribers re-read the
// authoritative state, so bursts coalesce to a single signal and the
// latest state always wins.
type Bus struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Publish signals that the given user's collections changed. Never
// blocks: pending signals for the same user collapse into one.
func (b *Bus) Publish(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		sub.add(userID)
	}
}

// Subscribe registers a new subscriber. Call Close on the returned
// subscription to release it.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{
		bus:     b,
		pending: make(map[string]struct{}),
		notify:  make(chan struct{}, 1),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Subscription is one subscriber's coalescing view of the bus.
type Subscription struct {
	bus    *Bus
	mu     sync.Mutex
	closed bool

	pending map[string]struct{}
	notify  chan struct{}
}

func (s *Subscription) add(userID string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending[userID] = struct{}{}
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Changed returns a channel that receives when at least one user has
// pending changes. Multiple publishes between reads collapse into one
// receive.
func (s *Subscription) Changed() <-chan struct{} {
	return s.notify
}

// Drain returns the users with pending changes, sorted for determinism,
// and clears the pending set.
func (s *Subscription) Drain() []string {
	s.mu.Lock()
	users := make([]string, 0, len(s.pending))
	for id := range s.pending {
		users = append(users, id)
	}
	s.pending = make(map[string]struct{})
	s.mu.Unlock()

	sort.Strings(users)
	return users
}

// Close releases the subscription. Publishes after Close are ignored.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.bus.unsubscribe(s)
}
