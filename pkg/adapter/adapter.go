// Package adapter provides the relational storage adapter contract and the
// shared database/sql machinery behind it.
//
// This package contains the value marshaller, the error mapper, the
// statement executor and the transaction handle. Concrete backing engines
// live in pkg/adapters/ subdirectories and register themselves here.
package adapter

import (
	"context"

	"github.com/leapstack-labs/keelsql/pkg/core"
)

// Config holds configuration for connecting to a backing engine.
type Config struct {
	// Type specifies the backing engine (e.g., "sqlite", "duckdb", "postgres")
	Type string

	// Path is the file path for file-based databases (SQLite, DuckDB).
	// Use ":memory:" for an in-memory database.
	Path string

	// Network databases
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// Schema is the default schema to use
	Schema string

	// Options contains additional driver-specific DSN options
	Options map[string]string

	// Params holds adapter-specific settings, decoded with DecodeParams
	Params map[string]any
}

// Adapter defines the interface that all backing engines must implement.
// On top of the SQL capability it owns the connection lifecycle.
type Adapter interface {
	core.SQL

	// Connect opens the backing engine using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close rolls back every transaction still open, then releases the
	// backing engine.
	Close() error

	// DriverName returns the database/sql driver name (e.g., "sqlite").
	DriverName() string
}
