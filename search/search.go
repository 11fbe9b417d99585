// Package search answers record searches against a vtcache.Cache,
// transparently escalating to the remote provider when the cache cannot give
// a definitive answer.
//
// Every result carries a source tag so a consumer can tell a cache answer
// from a server answer and, for example, show a "searching remote source"
// indicator while an escalated query is running.
package search

import (
	"context"
)

// Source tags where a search result came from.
type Source string

const (
	// SourceCache marks results answered entirely from the local buffer
	SourceCache Source = "cache"
	// SourceServer marks results fetched with a remote filtered query
	SourceServer Source = "server"
)

// Result is the ephemeral outcome of one search. It is never persisted and
// server results are never merged back into the cache.
type Result[T any] struct {
	// Records holds the matching records; treat as read-only
	Records []T
	// Source reports whether the answer came from cache or server
	Source Source
}

// MatchFunc decides whether a record matches a normalized (lowercased,
// trimmed) query. Implementations are domain-specific, typically a substring
// match against one or more fields.
type MatchFunc[T any] func(record T, normalizedQuery string) bool

// FilterBuilder turns a normalized query into a remote filter expression in
// the provider's query dialect. The builder is responsible for any escaping
// the dialect requires, such as doubling embedded quote characters.
type FilterBuilder func(normalizedQuery string) string

// Orchestrator answers search queries for one cached record set.
type Orchestrator[T any] interface {
	// Execute runs the search algorithm:
	// an empty query returns all cached records from the cache; a non-empty
	// query is answered from the cache when it matches there or when the
	// cache is fully loaded, and is otherwise escalated as a single
	// server-side filtered fetch tagged SourceServer.
	//
	// Errors from an escalated fetch propagate to the caller.
	Execute(ctx context.Context, query string) (*Result[T], error)
}
