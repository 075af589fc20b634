package duckdb

import "github.com/leapstack-labs/keelsql/pkg/adapter"

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	adapter.Params `mapstructure:",squash"`

	// Extensions to load on every connection (e.g., "json", "parquet").
	// They must already be installed.
	Extensions []string `mapstructure:"extensions"`

	// Settings applied with SET on every connection (e.g., threads).
	Settings map[string]string `mapstructure:"settings"`
}

// ParseParams decodes cfg.Params.
func ParseParams(in map[string]any) (*Params, error) {
	p := &Params{}
	if err := adapter.DecodeParams(in, p); err != nil {
		return nil, err
	}
	return p, nil
}
