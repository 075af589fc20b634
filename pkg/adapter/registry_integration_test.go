package adapter_test

import (
	"context"
	"testing"

	"github.com/leapstack-labs/keelsql/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/keelsql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/keelsql/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/keelsql/pkg/adapters/sqlite"
)

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"duckdb registered", "duckdb", true},
		{"postgres registered", "postgres", true},
		{"sqlite registered", "sqlite", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.IsRegistered(tt.adapterName)
			assert.Equal(t, tt.expected, got, "IsRegistered(%q)", tt.adapterName)
		})
	}
}

func TestListAdapters(t *testing.T) {
	adapters := adapter.ListAdapters()

	assert.Subset(t, adapters, []string{"duckdb", "postgres", "sqlite"})
	assert.IsNonDecreasing(t, adapters, "adapter names are sorted")
}

func TestNewAdapter_DriverNames(t *testing.T) {
	tests := []struct {
		typ    string
		driver string
	}{
		{"duckdb", "duckdb"},
		{"postgres", "pgx"},
		{"sqlite", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			adp, err := adapter.NewAdapter(adapter.Config{Type: tt.typ}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, adp.DriverName())
		})
	}
}

func TestNewAdapter_UnknownType(t *testing.T) {
	_, err := adapter.NewAdapter(adapter.Config{Type: "unknown_adapter"}, nil)
	require.Error(t, err, "NewAdapter(unknown_adapter) should fail")

	var unknownErr *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)

	assert.Equal(t, "unknown_adapter", unknownErr.Type, "error type")
	assert.Contains(t, unknownErr.Available, "sqlite", "Available adapters should include sqlite")
}

func TestOpen_ConnectsSQLite(t *testing.T) {
	adp, err := adapter.Open(context.Background(), adapter.Config{Type: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()

	res, err := adp.Query(context.Background(), "SELECT 1 AS one", nil)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}
