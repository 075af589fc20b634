// Package config loads keelsql.yaml and turns it into adapter settings.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/keelsql/pkg/adapter"
)

// Config is the top-level keelsql.yaml document.
type Config struct {
	Target  TargetConfig `koanf:"target" yaml:"target"`
	Server  ServerConfig `koanf:"server" yaml:"server"`
	Verbose bool         `koanf:"verbose" yaml:"verbose"`
	Output  string       `koanf:"output" yaml:"output"` // table, json, csv

	// BaseDir is the directory relative database paths resolve against.
	BaseDir string `koanf:"-" yaml:"-"`
}

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type" yaml:"type"` // sqlite, duckdb, postgres

	// File path for file-based engines, database name for network ones.
	Database string `koanf:"database" yaml:"database"`

	// Network databases
	Host     string `koanf:"host" yaml:"host,omitempty"`
	Port     int    `koanf:"port" yaml:"port,omitempty"`
	User     string `koanf:"user" yaml:"user,omitempty"`
	Password string `koanf:"password" yaml:"password,omitempty"`

	Schema string `koanf:"schema" yaml:"schema,omitempty"`

	// Additional driver-specific DSN options
	Options map[string]string `koanf:"options" yaml:"options,omitempty"`

	// Params holds adapter-specific settings (e.g., busy_timeout, report_rows_affected)
	Params map[string]any `koanf:"params" yaml:"params,omitempty"`
}

// ServerConfig configures the HTTP harness.
type ServerConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// IsFileBased reports whether Database names a local file.
func (t *TargetConfig) IsFileBased() bool {
	switch strings.ToLower(t.Type) {
	case "sqlite", "duckdb":
		return true
	default:
		return false
	}
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if !t.IsFileBased() && t.Database == "" {
		return fmt.Errorf("target database is required for %s", t.Type)
	}
	return nil
}

// Validate checks the whole document.
func (c *Config) Validate() error {
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	switch c.Output {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("invalid output format %q (want table, json or csv)", c.Output)
	}
	return nil
}

// AdapterConfig converts the target into an adapter.Config. Relative file
// paths are resolved against BaseDir.
func (c *Config) AdapterConfig() adapter.Config {
	t := c.Target
	out := adapter.Config{
		Type:     strings.ToLower(t.Type),
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}

	if !t.IsFileBased() {
		out.Database = t.Database
		return out
	}

	path := t.Database
	if path != "" && path != ":memory:" && !filepath.IsAbs(path) && c.BaseDir != "" {
		path = filepath.Join(c.BaseDir, path)
	}
	out.Path = path
	return out
}
