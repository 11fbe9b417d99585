package vtcache

import "fmt"

// Predefined errors
var (
	// ErrNilProvider is returned when a cache is created without a provider
	ErrNilProvider = fmt.Errorf("vtcache: provider must not be nil")
)

// Error constructors

// ErrInvalidInitialPageSize returns an error for an out-of-range initial page size
func ErrInvalidInitialPageSize(size int) error {
	return fmt.Errorf("vtcache: invalid initial page size: %d (must be between %d and %d)",
		size, minInitialPageSize, maxInitialPageSize)
}

// ErrInvalidMaxCachedRecords returns an error for an out-of-range record ceiling
func ErrInvalidMaxCachedRecords(max int) error {
	return fmt.Errorf("vtcache: invalid max cached records: %d (must be between %d and %d)",
		max, minMaxCachedRecords, maxMaxCachedRecords)
}

// ErrInvalidBackgroundPageSize returns an error for an out-of-range background page size
func ErrInvalidBackgroundPageSize(size int) error {
	return fmt.Errorf("vtcache: invalid background page size: %d (must be between %d and %d)",
		size, minBackgroundPageSize, maxBackgroundPageSize)
}

// ErrCeilingBelowInitialPageSize returns an error for a record ceiling smaller
// than the initial page size
func ErrCeilingBelowInitialPageSize(max, initial int) error {
	return fmt.Errorf("vtcache: max cached records %d must be >= initial page size %d", max, initial)
}

// ErrNegativeStateField returns an error for a negative state field
func ErrNegativeStateField(field string, value int) error {
	return fmt.Errorf("vtcache: invalid state: %s is %d (must be >= 0)", field, value)
}
