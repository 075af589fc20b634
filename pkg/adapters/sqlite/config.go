package sqlite

import "github.com/leapstack-labs/keelsql/pkg/adapter"

// Default pragma values.
const (
	DefaultBusyTimeout = 5000
	DefaultJournalMode = "WAL"
)

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	adapter.Params `mapstructure:",squash"`

	// BusyTimeout in milliseconds before a locked database returns an error.
	BusyTimeout int `mapstructure:"busy_timeout"`

	// JournalMode for file databases (e.g., "WAL", "DELETE").
	// Ignored for in-memory databases.
	JournalMode string `mapstructure:"journal_mode"`

	// ForeignKeys enables foreign key enforcement (default true).
	ForeignKeys *bool `mapstructure:"foreign_keys"`
}

// ParseParams decodes cfg.Params and applies defaults.
func ParseParams(in map[string]any) (*Params, error) {
	p := &Params{}
	if err := adapter.DecodeParams(in, p); err != nil {
		return nil, err
	}
	if p.BusyTimeout == 0 {
		p.BusyTimeout = DefaultBusyTimeout
	}
	if p.JournalMode == "" {
		p.JournalMode = DefaultJournalMode
	}
	if p.ForeignKeys == nil {
		on := true
		p.ForeignKeys = &on
	}
	return p, nil
}
