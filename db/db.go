// Package db provides MySQL connection management and a GORM-backed record
// provider implementing the paging contract.
//
// The db package follows go-kit conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Configuration with validation and defaults
// - Structured error handling
package db

import (
	"context"

	"gorm.io/gorm"
)

// Database is the interface for the database
type Database interface {
	DB() (*gorm.DB, error)
	Ping(ctx context.Context) error
	Close() error
}
