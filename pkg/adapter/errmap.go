package adapter

import (
	"errors"

	"github.com/leapstack-labs/keelsql/pkg/core"
)

// CallSite tags where a backing-engine failure happened.
type CallSite uint8

// Call sites understood by MapError.
const (
	SiteConnection CallSite = iota + 1
	SiteQuery
	SiteTransaction
)

// MapError classifies a backing-engine failure into a *core.SQLError.
// The engine's message is carried unchanged. Unknown sites map to
// QueryFailed; an error that is already a *core.SQLError passes through.
func MapError(err error, site CallSite) error {
	if err == nil {
		return nil
	}

	var sqlErr *core.SQLError
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	kind := core.QueryFailed
	switch site {
	case SiteConnection:
		kind = core.ConnectionFailed
	case SiteTransaction:
		kind = core.TransactionFailed
	}
	return &core.SQLError{Kind: kind, Message: err.Error()}
}
