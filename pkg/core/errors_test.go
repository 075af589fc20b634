package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLError_Error(t *testing.T) {
	tests := []struct {
		err  *SQLError
		want string
	}{
		{&SQLError{Kind: ConnectionFailed, Message: "unable to open database file"}, "connection-failed: unable to open database file"},
		{&SQLError{Kind: QueryFailed, Message: `near "INVALID": syntax error`}, `query-failed: near "INVALID": syntax error`},
		{&SQLError{Kind: TransactionFailed, Message: "cannot commit"}, "transaction-failed: cannot commit"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSQLError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &SQLError{Kind: QueryFailed, Message: "boom"})

	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.NotErrorIs(t, err, ErrConnectionFailed)
	assert.NotErrorIs(t, err, ErrTransactionFailed)

	var sqlErr *SQLError
	assert.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, "boom", sqlErr.Message)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "error-kind(0)", ErrorKind(0).String())
	assert.Equal(t, "query-failed", QueryFailed.String())
}

func TestKVError(t *testing.T) {
	err := &KVError{Kind: OperationFailed, Message: "capability unavailable: get"}

	assert.Equal(t, "operation-failed: capability unavailable: get", err.Error())
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.NotErrorIs(t, err, ErrQueryFailed)
}

func TestRow_Lookup(t *testing.T) {
	row := Row{Columns: []Column{
		{Name: "id", Value: Int64(1)},
		{Name: "name", Value: Text("first")},
		{Name: "name", Value: Text("second")},
	}}

	v, ok := row.Get("name")
	assert.True(t, ok)
	assert.True(t, v.Equal(Text("first")), "duplicate names resolve to the first column")

	_, ok = row.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"id", "name", "name"}, row.Names())
	assert.Len(t, row.Values(), 3)
}
