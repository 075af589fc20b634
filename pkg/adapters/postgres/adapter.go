// Package postgres provides a PostgreSQL backing engine for keelsql.
//
// Statements are passed to the server unchanged, so parameters use the
// $1, $2 placeholder style.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/keelsql/pkg/adapter"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DriverName returns the database/sql driver name.
func (a *Adapter) DriverName() string {
	return "pgx"
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params := &adapter.Params{}
	if err := adapter.DecodeParams(cfg.Params, params); err != nil {
		return err
	}

	connCfg, err := pgx.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("invalid postgres connection settings: %w", err)
	}
	if cfg.Schema != "" {
		connCfg.RuntimeParams["search_path"] = cfg.Schema
	}

	a.Logger.Debug("connecting to postgres", slog.String("host", connCfg.Host), slog.String("database", connCfg.Database))

	db := stdlib.OpenDB(*connCfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return adapter.MapError(fmt.Errorf("failed to ping postgres: %w", err), adapter.SiteConnection)
	}

	a.DB = db
	a.Cfg = cfg
	a.ReportRowsAffected = params.ReportRowsAffected
	return nil
}

// buildPostgresDSN constructs a PostgreSQL keyword/value connection string.
// Options are appended in key order after the fixed settings.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	parts := []string{
		"host=" + quoteDSNValue(host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + quoteDSNValue(cfg.Database),
		"sslmode=" + quoteDSNValue(sslmode),
	}
	if cfg.Username != "" {
		parts = append(parts, "user="+quoteDSNValue(cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(cfg.Password))
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+quoteDSNValue(cfg.Options[k]))
	}

	return strings.Join(parts, " ")
}

// quoteDSNValue single-quotes values that are empty or contain spaces,
// quotes or backslashes.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
