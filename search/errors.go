package search

import "fmt"

// Predefined errors
var (
	// ErrNilCache is returned when an orchestrator is created without a cache
	ErrNilCache = fmt.Errorf("search: cache must not be nil")
	// ErrNilProvider is returned when an orchestrator is created without a provider
	ErrNilProvider = fmt.Errorf("search: provider must not be nil")
	// ErrNilMatchFunc is returned when an orchestrator is created without a match function
	ErrNilMatchFunc = fmt.Errorf("search: match function must not be nil")
	// ErrNilFilterBuilder is returned when an orchestrator is created without a filter builder
	ErrNilFilterBuilder = fmt.Errorf("search: filter builder must not be nil")
)

// ErrInvalidServerSearchLimit returns an error for a non-positive server search limit
func ErrInvalidServerSearchLimit(limit int) error {
	return fmt.Errorf("search: invalid server search limit: %d (must be >= 1)", limit)
}

// ErrServerSearch wraps a failed escalated server search
func ErrServerSearch(query string, err error) error {
	return fmt.Errorf("search: server search for %q failed: %w", query, err)
}
