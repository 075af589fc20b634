// Package duckdb provides a DuckDB backing engine for keelsql.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/keelsql/pkg/adapters/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/leapstack-labs/keelsql/pkg/adapter"
)

func init() {
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
