// Package paging defines the page-fetch contract shared by the record cache,
// the search orchestrator, and the data providers in this toolkit.
//
// A Provider hands out one bounded page of records at a time together with
// the total count of the underlying record set. The cache never talks to the
// network or a store directly; everything goes through this contract.
package paging

import "context"

// QueryOptions carries optional hints for a paginated fetch.
// The zero value asks for an unfiltered, uncapped page.
type QueryOptions struct {
	// Filter is a remote filter expression in the provider's query dialect.
	// Empty means no server-side filtering. Building (and escaping) the
	// expression is the caller's responsibility.
	Filter string
	// Top caps the total number of records the caller is interested in.
	// 0 means no cap.
	Top int
}

// Result is one page of records as returned by a Provider.
type Result[T any] struct {
	// Items holds the records of the requested page, in provider order
	Items []T
	// Page is the 1-based page number that was requested
	Page int
	// PageSize is the page size that was requested
	PageSize int
	// TotalCount is the total number of records matching the query,
	// across all pages
	TotalCount int
}

// HasNextPage reports whether at least one more page exists after this one.
func (r *Result[T]) HasNextPage() bool {
	return r.Page*r.PageSize < r.TotalCount
}

// Provider supplies pages of records from a remote or local source.
//
// Implementations must treat page as 1-based and must honor context
// cancellation on every fetch. FindPaginated with a filter in opts performs
// the provider's server-side filtering; Count reports the total matching
// record count without fetching items.
type Provider[T any] interface {
	FindPaginated(ctx context.Context, page, pageSize int, opts *QueryOptions) (*Result[T], error)
	Count(ctx context.Context, opts *QueryOptions) (int, error)
}
