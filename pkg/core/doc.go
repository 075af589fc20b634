// Package core defines the shared language of keelsql.
//
// This package contains:
//   - The canonical value model (Value, Row, QueryResult)
//   - The error taxonomy (SQLError, KVError)
//   - The capability contracts (SQL, Transaction, KV)
//
// The Golden Rule: pkg/core imports ONLY stdlib and google/uuid.
// Adapters depend on core, never the reverse.
package core
