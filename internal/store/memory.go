package store

import (
	"sync"

	"github.com/formbucket/formbucket/model"
)

const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Subscribers receive snapshots via buffered channels (buffer size 100).
// Snapshots are sent non-blocking; if a subscriber's buffer is full, the
// snapshot is dropped for that subscriber. The next change still reaches it,
// so a lagging view converges on the latest state.
type MemoryStore struct {
	mu          sync.RWMutex
	state       model.State
	subscribers map[chan model.State]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] holding initial.
func NewMemoryStore(initial model.State) *MemoryStore {
	return &MemoryStore{
		state:       initial.Clone(),
		subscribers: make(map[chan model.State]struct{}),
	}
}

// SetState merges patch into the current state and notifies all subscribers.
func (m *MemoryStore) SetState(patch model.Patch) model.State {
	return m.Update(func(model.State) model.Patch { return patch })
}

// Update merges the patch returned by fn, computed against the current state.
func (m *MemoryStore) Update(fn func(model.State) model.Patch) model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	patch := fn(m.state.Clone())
	if patch.IsEmpty() {
		return m.state.Clone()
	}
	m.state = patch.Apply(m.state).Clone()

	// notify while still holding the write lock so subscribers observe
	// snapshots in the same order the writes were applied
	m.notifySubscribers(m.state)
	return m.state.Clone()
}

// Snapshot returns a copy of the current state.
func (m *MemoryStore) Snapshot() model.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Subscribe creates a new subscription and returns a channel for receiving snapshots.
//
// The returned channel has a buffer of 100 snapshots. If the buffer fills
// (slow consumer), new snapshots are dropped for this subscriber.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan model.State {
	ch := make(chan model.State, subscriberBuffer)
	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan model.State) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends a copy of state to every active subscriber without blocking.
func (m *MemoryStore) notifySubscribers(state model.State) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- state.Clone():
		default:
			// subscriber is slow, drop the snapshot
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (m *MemoryStore) SubscriberCount() int {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	return len(m.subscribers)
}
