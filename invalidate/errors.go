package invalidate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingDataset is returned for events without a dataset name
	ErrMissingDataset = errors.New("invalidate: event has no dataset")

	// ErrAlreadyStarted is returned when registering after Start
	ErrAlreadyStarted = errors.New("invalidate: listener already started")

	// ErrNilHandler is returned when registering a nil handler
	ErrNilHandler = errors.New("invalidate: handler cannot be nil")
)

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(message string) error {
	return fmt.Errorf("invalidate: invalid config: %s", message)
}

// ErrConnection creates an error for broker connection failures
func ErrConnection(err error) error {
	return fmt.Errorf("invalidate: connection failed: %w", err)
}

// ErrSubscribe creates an error for topic subscription failures
func ErrSubscribe(topics []string, err error) error {
	return fmt.Errorf("invalidate: subscribe to [%s] failed: %w", strings.Join(topics, ","), err)
}

// ErrConsume creates an error for consume loop failures
func ErrConsume(err error) error {
	return fmt.Errorf("invalidate: consume failed: %w", err)
}

// ErrMalformedEvent creates an error for undecodable event payloads
func ErrMalformedEvent(err error) error {
	return fmt.Errorf("invalidate: malformed event: %w", err)
}

// ErrUnknownAction creates an error for unsupported event actions
func ErrUnknownAction(action string) error {
	return fmt.Errorf("invalidate: unknown action: %q", action)
}

// ErrDuplicateDataset creates an error for double handler registration
func ErrDuplicateDataset(dataset string) error {
	return fmt.Errorf("invalidate: handler already registered for dataset: %q", dataset)
}
