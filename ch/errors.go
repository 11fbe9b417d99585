package ch

import (
	"errors"
	"fmt"
)

var (
	// ErrClientClosed is returned when using a closed client
	ErrClientClosed = errors.New("ch: client is closed")
)

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(message string) error {
	return fmt.Errorf("ch: invalid config: %s", message)
}

// ErrConnection creates an error for connection failures
func ErrConnection(err error) error {
	return fmt.Errorf("ch: connection failed: %w", err)
}

// ErrInvalidIdentifier creates an error for unsafe table or column names
func ErrInvalidIdentifier(name string) error {
	return fmt.Errorf("ch: invalid identifier: %q", name)
}

// ErrQuery creates an error for query failures
func ErrQuery(err error) error {
	return fmt.Errorf("ch: query failed: %w", err)
}
