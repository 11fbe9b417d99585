package db

import "fmt"

// Predefined errors
var (
	// ErrConnectionNotEstablished is returned when the connection has not been established
	ErrConnectionNotEstablished = fmt.Errorf("db: connection not established")
)

// Error constructors

// ErrInvalidConfig returns an error for an invalid configuration
func ErrInvalidConfig(reason string) error {
	return fmt.Errorf("db: invalid config: %s", reason)
}

// ErrConnection wraps a connection error
func ErrConnection(err error) error {
	return fmt.Errorf("db: connection failed: %w", err)
}

// ErrQuery wraps a query error
func ErrQuery(err error) error {
	return fmt.Errorf("db: query failed: %w", err)
}
