package paging

import "fmt"

// ErrInvalidPage returns an error for a page number below 1
func ErrInvalidPage(page int) error {
	return fmt.Errorf("paging: invalid page: %d (must be >= 1)", page)
}

// ErrInvalidPageSize returns an error for a non-positive page size
func ErrInvalidPageSize(size int) error {
	return fmt.Errorf("paging: invalid page size: %d (must be > 0)", size)
}
