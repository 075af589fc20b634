package core

import "fmt"

// ErrorKind classifies a SQLError.
type ErrorKind uint8

// SQL error kinds.
const (
	// ConnectionFailed means a connection could not be obtained.
	ConnectionFailed ErrorKind = iota + 1
	// QueryFailed means a statement was rejected or failed, including
	// malformed SQL and constraint violations.
	QueryFailed
	// TransactionFailed means begin, commit or rollback itself failed, or
	// the transaction handle was already finished.
	TransactionFailed
)

// String returns the wire name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ConnectionFailed:
		return "connection-failed"
	case QueryFailed:
		return "query-failed"
	case TransactionFailed:
		return "transaction-failed"
	default:
		return fmt.Sprintf("error-kind(%d)", uint8(k))
	}
}

// SQLError is the error returned by every SQL capability operation.
// Message is the backing engine's diagnostic text, unmodified.
type SQLError struct {
	Kind    ErrorKind
	Message string
}

func (e *SQLError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Is matches any SQLError of the same kind, so callers can write
// errors.Is(err, core.ErrQueryFailed).
func (e *SQLError) Is(target error) bool {
	t, ok := target.(*SQLError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is matching by kind.
var (
	ErrConnectionFailed  = &SQLError{Kind: ConnectionFailed}
	ErrQueryFailed       = &SQLError{Kind: QueryFailed}
	ErrTransactionFailed = &SQLError{Kind: TransactionFailed}
)

// KVErrorKind classifies a KVError. There is a single kind.
type KVErrorKind uint8

// OperationFailed is the only key-value error kind.
const OperationFailed KVErrorKind = 1

// KVError is the error returned by every key-value capability operation.
type KVError struct {
	Kind    KVErrorKind
	Message string
}

func (e *KVError) Error() string {
	return "operation-failed: " + e.Message
}

// Is matches any KVError.
func (e *KVError) Is(target error) bool {
	t, ok := target.(*KVError)
	return ok && t.Kind == e.Kind
}

// ErrOperationFailed is the sentinel for errors.Is matching KVErrors.
var ErrOperationFailed = &KVError{Kind: OperationFailed}
