// Package store provides the observable application state container.
//
// This package is internal to formbucket and holds the single mutable
// [model.State] value that views render from. It implements a
// publish-subscribe pattern so views can re-render when any action merges a
// patch.
//
// The main components are:
//
//   - [Store]: Interface defining merge, snapshot and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//
// Every merge is applied atomically under a lock. There are no transactions
// and no rollback: when two actions resolve concurrently, both patches are
// applied in the order the writes reach the store, and the later one wins
// for any field they both set.
//
// Subscribers receive snapshots via channels with non-blocking sends (slow
// subscribers will miss intermediate snapshots rather than block writers).
package store
