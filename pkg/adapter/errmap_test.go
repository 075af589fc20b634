package adapter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leapstack-labs/keelsql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	engineErr := errors.New("near \"SELEC\": syntax error")

	tests := []struct {
		name     string
		err      error
		site     CallSite
		wantKind core.ErrorKind
		wantMsg  string
	}{
		{"connection", engineErr, SiteConnection, core.ConnectionFailed, engineErr.Error()},
		{"query", engineErr, SiteQuery, core.QueryFailed, engineErr.Error()},
		{"transaction", engineErr, SiteTransaction, core.TransactionFailed, engineErr.Error()},
		{"unknown site", engineErr, CallSite(99), core.QueryFailed, engineErr.Error()},
		{"zero site", engineErr, CallSite(0), core.QueryFailed, engineErr.Error()},
		{
			name:     "already classified passes through",
			err:      fmt.Errorf("wrapped: %w", &core.SQLError{Kind: core.ConnectionFailed, Message: "gone"}),
			site:     SiteQuery,
			wantKind: core.ConnectionFailed,
			wantMsg:  "gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError(tt.err, tt.site)

			var sqlErr *core.SQLError
			require.ErrorAs(t, err, &sqlErr)
			assert.Equal(t, tt.wantKind, sqlErr.Kind)
			assert.Equal(t, tt.wantMsg, sqlErr.Message)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil, SiteQuery))
}
