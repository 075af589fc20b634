package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/leapstack-labs/keelsql/pkg/core"
)

// TxState is the lifecycle state of a transaction handle.
type TxState uint8

// Transaction states. Every state other than TxOpen is terminal.
const (
	TxOpen TxState = iota
	TxCommitted
	TxRolledBack
	// TxFailed is entered when commit or rollback itself fails. The
	// connection is released and the engine-side outcome is unknown.
	TxFailed
)

func (s TxState) String() string {
	switch s {
	case TxOpen:
		return "open"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled back"
	case TxFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Tx is a transaction handle. It exclusively owns one connection while
// open and releases it on the transition to a terminal state. Calls on a
// finished handle return TransactionFailed without reaching the engine.
type Tx struct {
	mu    sync.Mutex
	owner *BaseSQLAdapter
	conn  *sql.Conn
	tx    *sql.Tx
	state TxState
	id    string
}

var _ core.Transaction = (*Tx)(nil)

func newTx(owner *BaseSQLAdapter, conn *sql.Conn, tx *sql.Tx) *Tx {
	return &Tx{
		owner: owner,
		conn:  conn,
		tx:    tx,
		state: TxOpen,
		id:    uuid.NewString(),
	}
}

// ID identifies the handle in logs.
func (t *Tx) ID() string { return t.id }

// State reports the current lifecycle state.
func (t *Tx) State() TxState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Query runs a statement that returns rows on the bound connection.
func (t *Tx) Query(ctx context.Context, sqlStr string, params []core.Value) (core.QueryResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxOpen {
		return core.QueryResult{}, t.finishedErr()
	}
	return t.owner.query(ctx, t.tx, sqlStr, params)
}

// Execute runs a statement that does not return rows on the bound
// connection.
func (t *Tx) Execute(ctx context.Context, sqlStr string, params []core.Value) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxOpen {
		return 0, t.finishedErr()
	}
	return t.owner.execute(ctx, t.tx, sqlStr, params)
}

// Commit commits the transaction. On failure the handle moves to TxFailed.
func (t *Tx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxOpen {
		return t.finishedErr()
	}

	if err := t.tx.Commit(); err != nil {
		t.finish(TxFailed)
		return MapError(err, SiteTransaction)
	}
	t.finish(TxCommitted)
	return nil
}

// Rollback aborts the transaction. On failure the handle moves to TxFailed.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TxOpen {
		return t.finishedErr()
	}

	if err := t.tx.Rollback(); err != nil {
		t.finish(TxFailed)
		return MapError(err, SiteTransaction)
	}
	t.finish(TxRolledBack)
	return nil
}

// finish records the terminal state and releases the connection.
// Callers hold t.mu.
func (t *Tx) finish(state TxState) {
	t.state = state
	if err := t.conn.Close(); err != nil {
		t.owner.log().Debug("failed to release transaction connection",
			slog.String("tx", t.id), slog.String("error", err.Error()))
	}
	t.conn = nil
	t.tx = nil
	t.owner.untrack(t)
	t.owner.log().Debug("transaction finished", slog.String("tx", t.id), slog.String("state", state.String()))
}

func (t *Tx) finishedErr() error {
	return &core.SQLError{
		Kind:    core.TransactionFailed,
		Message: "transaction already " + t.state.String(),
	}
}
