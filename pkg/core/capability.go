package core

import (
	"context"
	"time"
)

// SQL is the relational storage capability contract.
type SQL interface {
	// Query runs a statement that returns rows. RowsAffected is always 0.
	Query(ctx context.Context, sql string, params []Value) (QueryResult, error)

	// Execute runs a statement that does not return rows and reports an
	// affected-row count (0 unless the adapter is configured otherwise).
	Execute(ctx context.Context, sql string, params []Value) (uint64, error)

	// BeginTransaction acquires a dedicated connection and opens a
	// transaction on it.
	BeginTransaction(ctx context.Context) (Transaction, error)
}

// Transaction is an explicit transaction bound to one connection.
// Once committed, rolled back or failed, every method returns a
// TransactionFailed error.
type Transaction interface {
	Query(ctx context.Context, sql string, params []Value) (QueryResult, error)
	Execute(ctx context.Context, sql string, params []Value) (uint64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// KVValue is the payload stored under a key.
type KVValue []byte

// ScanResult is one page of a key scan.
type ScanResult struct {
	Keys []string
	// Cursor resumes the scan; empty when exhausted.
	Cursor string
}

// KV is the key-value capability contract. Its semantics are owned by the
// backing store; errors are always *KVError.
type KV interface {
	Get(ctx context.Context, key string) (KVValue, bool, error)
	Set(ctx context.Context, key string, value KVValue) error
	SetWithTTL(ctx context.Context, key string, value KVValue, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string, delta int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Scan(ctx context.Context, pattern string, cursor string, limit int) (ScanResult, error)
}
