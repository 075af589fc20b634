package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/keelsql/pkg/adapter"
	"github.com/leapstack-labs/keelsql/pkg/core"
	"github.com/stretchr/testify/require"
)

// OpenAdapter opens a registered adapter for the duration of the test.
// The adapter package for cfg.Type must already be imported.
func OpenAdapter(t testing.TB, cfg adapter.Config) adapter.Adapter {
	t.Helper()

	adp, err := adapter.Open(context.Background(), cfg, NewTestLogger(t))
	require.NoError(t, err, "open %s adapter", cfg.Type)
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

// SQLiteConfig returns a config for a file-backed SQLite database inside
// the test's temporary directory.
func SQLiteConfig(t testing.TB) adapter.Config {
	t.Helper()
	return adapter.Config{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "test.db"),
	}
}

// SeedAccounts creates the accounts table and inserts one row per balance,
// with ids starting at 1.
func SeedAccounts(t testing.TB, db core.SQL, balances ...int64) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Execute(ctx, "CREATE TABLE accounts (id INTEGER PRIMARY KEY, balance INTEGER NOT NULL)", nil)
	require.NoError(t, err)

	for i, b := range balances {
		_, err := db.Execute(ctx, "INSERT INTO accounts (id, balance) VALUES (?, ?)",
			[]core.Value{core.Int64(int64(i + 1)), core.Int64(b)})
		require.NoError(t, err)
	}
}

// Balances reads every account balance ordered by id.
func Balances(t testing.TB, db core.SQL) []int64 {
	t.Helper()

	res, err := db.Query(context.Background(), "SELECT balance FROM accounts ORDER BY id", nil)
	require.NoError(t, err)

	out := make([]int64, 0, len(res.Rows))
	for _, row := range res.Rows {
		v, ok := row.Get("balance")
		require.True(t, ok, "balance column missing")
		n, ok := v.AsInt64()
		require.True(t, ok, "balance is %s, want int64", v.Kind())
		out = append(out, n)
	}
	return out
}

// DuckDBConfig returns a config for a private in-memory DuckDB database.
func DuckDBConfig() adapter.Config {
	return adapter.Config{Type: "duckdb", Path: ":memory:"}
}
