package refresh

import "fmt"

var (
	// ErrNilJob is returned when scheduling a nil job
	ErrNilJob = fmt.Errorf("refresh: job cannot be nil")

	// ErrEmptyName is returned when scheduling a job without a name
	ErrEmptyName = fmt.Errorf("refresh: job name cannot be empty")
)

// ErrInvalidSpec creates an error for a rejected cron spec
func ErrInvalidSpec(name, spec string, err error) error {
	return fmt.Errorf("refresh: job %s has invalid spec %q: %w", name, spec, err)
}

// ErrDuplicateJob creates an error for double job registration
func ErrDuplicateJob(name string) error {
	return fmt.Errorf("refresh: job already scheduled: %q", name)
}
