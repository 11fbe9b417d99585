// Package vtcache provides a bounded, progressively populated client-side
// record cache for browsing remote record sets that are far larger than what
// can be held or rendered at once.
//
// The vtcache package follows go-kit conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Uses routine package for safe goroutine execution
// - Configuration with validation and defaults
// - Structured error handling
//
// A Cache loads the first page of records synchronously and then, if enabled,
// keeps fetching further pages in the background until a configured record
// ceiling or the end of the data is reached. Consumers can search the buffer
// at any time without blocking on the background loop, observe progress
// through state snapshots, and cancel or clear the cache cooperatively.
package vtcache

import (
	"context"

	"github.com/JoshSmithXRM/tablekit/paging"
)

// StateObserver is invoked synchronously after every state publication with
// the new state snapshot and a defensive copy of the cached records.
type StateObserver[T any] func(state State, records []T)

// StateChange is one state publication as delivered to Watch subscribers.
type StateChange[T any] struct {
	// State is the published snapshot
	State State
	// Records is a defensive copy of the buffer at publication time
	Records []T
}

// Cache is a progressively populated record cache backed by a paging.Provider.
//
// A Cache owns exactly one record buffer. All collections it hands out are
// defensive copies; external code can never corrupt the internal buffer.
// At most one background loading loop runs per instance at a time; a fresh
// LoadInitialPage supersedes any loop still in flight.
type Cache[T any] interface {
	// LoadInitialPage fetches page 1 of the record set, replaces the buffer
	// with the fetched items, and returns the page result to the caller.
	// If background loading is enabled and more pages exist, it starts the
	// background loading loop without waiting for it.
	//
	// A provider error propagates unmodified and leaves the cache in the
	// state that existed before the call.
	LoadInitialPage(ctx context.Context, opts *paging.QueryOptions) (*paging.Result[T], error)

	// SearchCached synchronously filters the current buffer with the given
	// predicate. It never touches the provider.
	SearchCached(match func(record T) bool) []T

	// CachedRecords returns a defensive copy of the current buffer.
	CachedRecords() []T

	// State returns the current state snapshot. Snapshots are immutable
	// values; later progress produces new snapshots, never mutates old ones.
	State() State

	// Clear requests cancellation of any in-flight background loop, empties
	// the buffer, and resets the state to empty. Safe to call at any time,
	// including mid-background-load.
	Clear()

	// IsBackgroundLoading reports whether a background loading task is
	// currently tracked by this cache.
	IsBackgroundLoading() bool

	// CancelBackgroundLoading requests cancellation of the background loop
	// at its next check boundary without clearing cached data. An in-flight
	// page fetch is not preempted.
	CancelBackgroundLoading()

	// WaitForBackgroundLoading blocks until the tracked background task
	// completes. It returns immediately when no task is tracked.
	WaitForBackgroundLoading()

	// OnStateChange registers the observer invoked after every state
	// publication, in publication order. At most one observer is supported;
	// registering again replaces the previous one. A nil observer
	// unregisters. The observer runs on the publishing goroutine and must
	// not call mutating cache operations.
	OnStateChange(fn StateObserver[T])

	// Watch returns a channel of state publications, delivered in
	// publication order. The subscription is buffered without bound so a
	// slow consumer never blocks the loader. ctx must be cancellable: the
	// subscription and its bookkeeping are held until ctx is cancelled, so
	// subscribing with a never-cancelled context leaks the watcher.
	Watch(ctx context.Context) <-chan StateChange[T]
}
