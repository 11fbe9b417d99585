// Package ch provides a ClickHouse client and a paginated record provider
// over analytic tables, implementing the paging contract.
//
// Rows are returned as Record maps with column values normalized to a small
// set of stable Go types, so consumers can render and search records without
// knowing the table schema up front.
package ch

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/shopspring/decimal"
)

// Record is one table row keyed by column name. Values are normalized by
// the package converter; use the typed accessors for safe reads.
type Record map[string]any

// String reads a column as a string.
func (r Record) String(column string) (string, bool) {
	v, ok := r[column].(string)
	return v, ok
}

// Int reads a column as an int64.
func (r Record) Int(column string) (int64, bool) {
	switch v := r[column].(type) {
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

// Float reads a column as a float64.
func (r Record) Float(column string) (float64, bool) {
	v, ok := r[column].(float64)
	return v, ok
}

// Decimal reads a column as a decimal.Decimal. Decimal columns arrive from
// the driver as decimal values; numeric and string columns are converted.
func (r Record) Decimal(column string) (decimal.Decimal, bool) {
	switch v := r[column].(type) {
	case decimal.Decimal:
		return v, true
	case int64:
		return decimal.NewFromInt(v), true
	case uint64:
		return decimal.NewFromInt(int64(v)), true
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}

// Time reads a column as a time.Time.
func (r Record) Time(column string) (time.Time, bool) {
	v, ok := r[column].(time.Time)
	return v, ok
}

// Client is the ClickHouse client interface for query operations
type Client interface {
	// Query executes a ClickHouse query and returns driver.Rows
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	// QueryRow executes a query that is expected to return at most one row
	QueryRow(ctx context.Context, query string, args ...any) driver.Row
	// Close closes the client and all associated resources
	Close() error
}
