// Package kv holds the key-value capability. No backing store ships with
// keelsql; Unavailable satisfies the contract and refuses every call.
package kv

import (
	"context"
	"time"

	"github.com/leapstack-labs/keelsql/pkg/core"
)

// Unavailable is a core.KV whose every operation fails with
// OperationFailed.
type Unavailable struct{}

var _ core.KV = Unavailable{}

func unavailable(op string) error {
	return &core.KVError{Kind: core.OperationFailed, Message: "capability unavailable: " + op}
}

func (Unavailable) Get(context.Context, string) (core.KVValue, bool, error) {
	return nil, false, unavailable("get")
}

func (Unavailable) Set(context.Context, string, core.KVValue) error {
	return unavailable("set")
}

func (Unavailable) SetWithTTL(context.Context, string, core.KVValue, time.Duration) error {
	return unavailable("set-with-ttl")
}

func (Unavailable) Delete(context.Context, string) (bool, error) {
	return false, unavailable("delete")
}

func (Unavailable) Exists(context.Context, string) (bool, error) {
	return false, unavailable("exists")
}

func (Unavailable) Increment(context.Context, string, int64) (int64, error) {
	return 0, unavailable("increment")
}

func (Unavailable) Expire(context.Context, string, time.Duration) (bool, error) {
	return false, unavailable("expire")
}

func (Unavailable) Scan(context.Context, string, string, int) (core.ScanResult, error) {
	return core.ScanResult{}, unavailable("scan")
}
