package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/keelsql/pkg/core"
)

// errNotConnected is reported as ConnectionFailed when no pool is open.
var errNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides the statement executor and transaction handles
// over database/sql. Embed this struct in concrete adapter implementations
// to get Query, Execute, BeginTransaction and Close.
//
// Connect implementations assign DB before the adapter is shared. After
// that, Close may run concurrently with in-flight calls.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger

	// ReportRowsAffected makes Execute return the engine's count.
	ReportRowsAffected bool

	// mu guards DB once connected and the set of open transactions.
	mu   sync.Mutex
	open map[*Tx]struct{}
}

// statementer is satisfied by *sql.Conn and *sql.Tx.
type statementer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (b *BaseSQLAdapter) log() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.SQLDB() != nil
}

// SQLDB exposes the underlying pool for tooling such as schema
// migrations. It is nil until Connect succeeds and after Close.
func (b *BaseSQLAdapter) SQLDB() *sql.DB {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.DB
}

// Close rolls back every transaction still open and closes the database.
func (b *BaseSQLAdapter) Close() error {
	for _, tx := range b.openTransactions() {
		b.log().Debug("rolling back abandoned transaction", slog.String("tx", tx.id))
		_ = tx.Rollback(context.Background())
	}

	b.mu.Lock()
	db := b.DB
	b.DB = nil
	b.mu.Unlock()

	if db == nil {
		return nil
	}
	b.log().Debug("closing database connection")
	return db.Close()
}

// Query runs a statement that returns rows on a dedicated ad-hoc
// connection. RowsAffected is always 0.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string, params []core.Value) (core.QueryResult, error) {
	conn, err := b.acquire(ctx)
	if err != nil {
		return core.QueryResult{}, err
	}
	defer func() { _ = conn.Close() }()

	return b.query(ctx, conn, sqlStr, params)
}

// Execute runs a statement that does not return rows on a dedicated
// ad-hoc connection. It returns 0 unless ReportRowsAffected is set.
func (b *BaseSQLAdapter) Execute(ctx context.Context, sqlStr string, params []core.Value) (uint64, error) {
	conn, err := b.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = conn.Close() }()

	return b.execute(ctx, conn, sqlStr, params)
}

// BeginTransaction satisfies core.SQL; see Begin.
func (b *BaseSQLAdapter) BeginTransaction(ctx context.Context) (core.Transaction, error) {
	tx, err := b.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Begin acquires a connection and opens a transaction on it. If either
// step fails no handle is returned and the connection is released.
func (b *BaseSQLAdapter) Begin(ctx context.Context) (*Tx, error) {
	conn, err := b.acquire(ctx)
	if err != nil {
		return nil, err
	}

	// database/sql rolls a transaction back when its begin context ends;
	// the handle alone decides when this one finishes.
	sqlTx, err := conn.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		_ = conn.Close()
		return nil, MapError(err, SiteTransaction)
	}

	tx := newTx(b, conn, sqlTx)
	b.track(tx)
	b.log().Debug("transaction started", slog.String("tx", tx.id))
	return tx, nil
}

// acquire checks out a dedicated connection from the pool.
func (b *BaseSQLAdapter) acquire(ctx context.Context) (*sql.Conn, error) {
	db := b.SQLDB()
	if db == nil {
		return nil, MapError(errNotConnected, SiteConnection)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, MapError(err, SiteConnection)
	}
	return conn, nil
}

func (b *BaseSQLAdapter) query(ctx context.Context, s statementer, sqlStr string, params []core.Value) (core.QueryResult, error) {
	rows, err := s.QueryContext(ctx, sqlStr, ToNativeArgs(params)...)
	if err != nil {
		return core.QueryResult{}, MapError(err, SiteQuery)
	}
	defer func() { _ = rows.Close() }()

	out, err := scanRows(rows)
	if err != nil {
		return core.QueryResult{}, MapError(err, SiteQuery)
	}
	return core.QueryResult{Rows: out}, nil
}

func (b *BaseSQLAdapter) execute(ctx context.Context, s statementer, sqlStr string, params []core.Value) (uint64, error) {
	res, err := s.ExecContext(ctx, sqlStr, ToNativeArgs(params)...)
	if err != nil {
		return 0, MapError(err, SiteQuery)
	}

	n, err := res.RowsAffected()
	if err != nil {
		b.log().Debug("driver did not report affected rows", slog.String("error", err.Error()))
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	if b.ReportRowsAffected {
		return uint64(n), nil
	}
	b.log().Debug("affected rows not reported", slog.Int64("engine_rows_affected", n))
	return 0, nil
}

// scanRows drains rows into canonical form. A failure part way through
// discards everything read so far.
func scanRows(rows *sql.Rows) ([]core.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []core.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := core.Row{Columns: make([]core.Column, len(cols))}
		for i, name := range cols {
			row.Columns[i] = core.Column{Name: name, Value: FromNative(values[i])}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BaseSQLAdapter) track(tx *Tx) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open == nil {
		b.open = make(map[*Tx]struct{})
	}
	b.open[tx] = struct{}{}
}

func (b *BaseSQLAdapter) untrack(tx *Tx) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.open, tx)
}

func (b *BaseSQLAdapter) openTransactions() []*Tx {
	b.mu.Lock()
	defer b.mu.Unlock()
	txs := make([]*Tx, 0, len(b.open))
	for tx := range b.open {
		txs = append(txs, tx)
	}
	return txs
}

// OpenTransactions reports how many transaction handles are still open.
func (b *BaseSQLAdapter) OpenTransactions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.open)
}
