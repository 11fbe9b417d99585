package redisstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNilConfig is returned when the config is nil
	ErrNilConfig = errors.New("redisstore: config cannot be nil")

	// ErrNilClient is returned when the redis client is nil
	ErrNilClient = errors.New("redisstore: client cannot be nil")

	// ErrEmptyKey is returned when the dataset key is empty
	ErrEmptyKey = errors.New("redisstore: key cannot be empty")
)

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(message string) error {
	return fmt.Errorf("redisstore: invalid config: %s", message)
}

// ErrConnection creates an error for connection failures
func ErrConnection(err error) error {
	return fmt.Errorf("redisstore: connection failed: %w", err)
}

// ErrRead creates an error for read failures
func ErrRead(key string, err error) error {
	return fmt.Errorf("redisstore: read %q failed: %w", key, err)
}

// ErrDecode creates an error for malformed stored records
func ErrDecode(key string, err error) error {
	return fmt.Errorf("redisstore: decode record in %q failed: %w", key, err)
}
