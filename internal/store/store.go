package store

import "github.com/formbucket/formbucket/model"

// Store defines the interface for holding and observing application state.
//
// Store implementations must be safe for concurrent access. Every method that
// changes state notifies subscribers with the resulting snapshot.
type Store interface {
	// SetState shallow-merges patch into the current state and returns the
	// new state. An empty patch changes nothing and notifies no one.
	SetState(patch model.Patch) model.State

	// Update computes a patch from the current state and merges it, holding
	// the write lock for the duration so no other write interleaves.
	// fn must not call back into the store.
	Update(fn func(model.State) model.Patch) model.State

	// Snapshot returns a copy of the current state.
	// Modifications to the copy do not affect the store.
	Snapshot() model.State

	// Subscribe returns a channel that receives a snapshot after each change.
	// The returned channel has a buffer; slow consumers may miss snapshots.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan model.State

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan model.State)
}
