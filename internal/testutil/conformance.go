package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/leapstack-labs/keelsql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSQLConformance exercises the SQL capability contract against a
// backing engine. open must return a fresh, empty database per call.
// Statements use '?' placeholders and portable column types.
func RunSQLConformance(t *testing.T, open func(t *testing.T) core.SQL) {
	t.Run("read back collapses to five kinds", func(t *testing.T) {
		db := open(t)
		ctx := context.Background()

		_, err := db.Execute(ctx, "CREATE TABLE vals (id INTEGER, i BIGINT, f DOUBLE, s VARCHAR, b BLOB)", nil)
		require.NoError(t, err)

		tests := []struct {
			name   string
			column string
			in     core.Value
			want   core.Value
		}{
			{"null", "i", core.Null(), core.Null()},
			{"boolean true", "i", core.Bool(true), core.Int64(1)},
			{"boolean false", "i", core.Bool(false), core.Int64(0)},
			{"int32", "i", core.Int32(-42), core.Int64(-42)},
			{"int64", "i", core.Int64(1 << 40), core.Int64(1 << 40)},
			{"timestamp", "i", core.Timestamp(1700000000123), core.Int64(1700000000123)},
			{"float32", "f", core.Float32(1.5), core.Float64(1.5)},
			{"float64", "f", core.Float64(-0.25), core.Float64(-0.25)},
			{"text", "s", core.Text("héllo"), core.Text("héllo")},
			{"uuid", "s", core.UUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), core.Text("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
			{"bytes", "b", core.Bytes([]byte{0, 1, 255}), core.Bytes([]byte{0, 1, 255})},
		}

		for i, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				id := core.Int64(int64(i))
				_, err := db.Execute(ctx, "INSERT INTO vals (id, "+tt.column+") VALUES (?, ?)", []core.Value{id, tt.in})
				require.NoError(t, err)

				res, err := db.Query(ctx, "SELECT "+tt.column+" FROM vals WHERE id = ?", []core.Value{id})
				require.NoError(t, err)
				require.Len(t, res.Rows, 1)

				got, ok := res.Rows[0].Get(tt.column)
				require.True(t, ok)
				assert.True(t, tt.want.Equal(got), "got %#v, want %#v", got, tt.want)
			})
		}
	})

	t.Run("column order follows the engine", func(t *testing.T) {
		db := open(t)

		res, err := db.Query(context.Background(), "SELECT 3 AS z, 'x' AS a, 2.5 AS m", nil)
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, []string{"z", "a", "m"}, res.Rows[0].Names())
	})

	t.Run("execute reports zero affected rows", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 100, 200)

		n, err := db.Execute(context.Background(), "UPDATE accounts SET balance = balance + 1", nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), n, "two rows changed but the contract reports 0")
		assert.Equal(t, []int64{101, 201}, Balances(t, db))
	})

	t.Run("query reports zero affected rows", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 100, 200)

		res, err := db.Query(context.Background(), "SELECT id, balance FROM accounts", nil)
		require.NoError(t, err)
		assert.Len(t, res.Rows, 2)
		assert.Equal(t, uint64(0), res.RowsAffected)
	})

	t.Run("invalid query fails with no rows", func(t *testing.T) {
		db := open(t)

		res, err := db.Query(context.Background(), "INVALID SQL STATEMENT", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrQueryFailed)

		var sqlErr *core.SQLError
		require.ErrorAs(t, err, &sqlErr)
		assert.NotEmpty(t, sqlErr.Message)
		assert.Empty(t, res.Rows)
	})

	t.Run("invalid execute fails", func(t *testing.T) {
		db := open(t)

		n, err := db.Execute(context.Background(), "INSERT INTO missing_table VALUES (1)", nil)
		assert.ErrorIs(t, err, core.ErrQueryFailed)
		assert.Equal(t, uint64(0), n)
	})

	t.Run("commit applies both updates", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 100, 200)
		ctx := context.Background()

		tx, err := db.BeginTransaction(ctx)
		require.NoError(t, err)
		transfer(t, tx, 50)
		require.NoError(t, tx.Commit(ctx))

		assert.Equal(t, []int64{50, 250}, Balances(t, db))
	})

	t.Run("rollback discards both updates", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 100, 200)
		ctx := context.Background()

		tx, err := db.BeginTransaction(ctx)
		require.NoError(t, err)
		transfer(t, tx, 50)
		require.NoError(t, tx.Rollback(ctx))

		assert.Equal(t, []int64{100, 200}, Balances(t, db))
	})

	t.Run("transaction sees its own writes", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 100, 200)
		ctx := context.Background()

		tx, err := db.BeginTransaction(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback(ctx) }()

		_, err = tx.Execute(ctx, "UPDATE accounts SET balance = ? WHERE id = ?", []core.Value{core.Int64(7), core.Int64(1)})
		require.NoError(t, err)

		res, err := tx.Query(ctx, "SELECT balance FROM accounts WHERE id = ?", []core.Value{core.Int64(1)})
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		got, _ := res.Rows[0].Get("balance")
		assert.True(t, core.Int64(7).Equal(got), "got %#v", got)
	})

	t.Run("finished transaction rejects every call", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 1)
		ctx := context.Background()

		tx, err := db.BeginTransaction(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		assert.ErrorIs(t, tx.Commit(ctx), core.ErrTransactionFailed, "second commit")
		assert.ErrorIs(t, tx.Rollback(ctx), core.ErrTransactionFailed, "rollback after commit")

		_, err = tx.Query(ctx, "SELECT 1", nil)
		assert.ErrorIs(t, err, core.ErrTransactionFailed)
		_, err = tx.Execute(ctx, "UPDATE accounts SET balance = 0", nil)
		assert.ErrorIs(t, err, core.ErrTransactionFailed)

		assert.Equal(t, []int64{1}, Balances(t, db), "rejected execute must not reach the engine")
	})

	t.Run("ad-hoc read while a transaction is open", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 100, 200)
		ctx := context.Background()

		tx, err := db.BeginTransaction(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback(ctx) }()

		_, err = tx.Execute(ctx, "UPDATE accounts SET balance = ? WHERE id = ?", []core.Value{core.Int64(0), core.Int64(1)})
		require.NoError(t, err)

		type outcome struct {
			res core.QueryResult
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			res, err := db.Query(ctx, "SELECT balance FROM accounts ORDER BY id", nil)
			done <- outcome{res, err}
		}()

		select {
		case got := <-done:
			if got.err != nil {
				assert.ErrorIs(t, got.err, core.ErrQueryFailed, "contention must surface as a query failure")
				return
			}
			require.Len(t, got.res.Rows, 2)
			v, _ := got.res.Rows[0].Get("balance")
			assert.True(t, core.Int64(100).Equal(v), "uncommitted write visible outside the transaction: %#v", v)
		case <-time.After(30 * time.Second):
			t.Fatal("ad-hoc read blocked behind an open transaction")
		}
	})

	t.Run("transaction outlives its begin context", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 100, 200)
		ctx := context.Background()

		beginCtx, cancel := context.WithCancel(ctx)
		tx, err := db.BeginTransaction(beginCtx)
		require.NoError(t, err)
		cancel()

		transfer(t, tx, 50)
		require.NoError(t, tx.Commit(ctx))
		assert.Equal(t, []int64{50, 250}, Balances(t, db))
	})

	t.Run("failed statement inside transaction keeps handle usable", func(t *testing.T) {
		db := open(t)
		SeedAccounts(t, db, 10)
		ctx := context.Background()

		tx, err := db.BeginTransaction(ctx)
		require.NoError(t, err)

		_, err = tx.Query(ctx, "INVALID SQL", nil)
		assert.ErrorIs(t, err, core.ErrQueryFailed)

		require.NoError(t, tx.Rollback(ctx))
		assert.Equal(t, []int64{10}, Balances(t, db))
	})
}

// transfer moves amount from account 1 to account 2 inside tx.
func transfer(t *testing.T, tx core.Transaction, amount int64) {
	t.Helper()
	ctx := context.Background()

	_, err := tx.Execute(ctx, "UPDATE accounts SET balance = balance - ? WHERE id = ?",
		[]core.Value{core.Int64(amount), core.Int64(1)})
	require.NoError(t, err)
	_, err = tx.Execute(ctx, "UPDATE accounts SET balance = balance + ? WHERE id = ?",
		[]core.Value{core.Int64(amount), core.Int64(2)})
	require.NoError(t, err)
}
