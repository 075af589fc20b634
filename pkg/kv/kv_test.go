package kv

import (
	"context"
	"testing"
	"time"

	"github.com/leapstack-labs/keelsql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	var store core.KV = Unavailable{}

	tests := []struct {
		op   string
		call func() error
	}{
		{"get", func() error { _, _, err := store.Get(ctx, "k"); return err }},
		{"set", func() error { return store.Set(ctx, "k", core.KVValue("v")) }},
		{"set-with-ttl", func() error { return store.SetWithTTL(ctx, "k", nil, time.Second) }},
		{"delete", func() error { _, err := store.Delete(ctx, "k"); return err }},
		{"exists", func() error { _, err := store.Exists(ctx, "k"); return err }},
		{"increment", func() error { _, err := store.Increment(ctx, "k", 1); return err }},
		{"expire", func() error { _, err := store.Expire(ctx, "k", time.Minute); return err }},
		{"scan", func() error { _, err := store.Scan(ctx, "*", "", 10); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, core.ErrOperationFailed)

			var kvErr *core.KVError
			require.ErrorAs(t, err, &kvErr)
			assert.Equal(t, "capability unavailable: "+tt.op, kvErr.Message)
		})
	}
}
