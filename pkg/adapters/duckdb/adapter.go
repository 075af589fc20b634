package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"github.com/leapstack-labs/keelsql/pkg/adapter"
	"github.com/marcboeker/go-duckdb"
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
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
	return "duckdb"
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" or an empty path for an in-memory database. Every pooled
// connection shares the same database and runs the session setup from
// Params when it is opened.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	setup, err := sessionStatements(params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	a.Logger.Debug("connecting to duckdb", slog.String("path", cfg.Path), slog.Int("setup_statements", len(setup)))

	connector, err := duckdb.NewConnector(path, func(execer driver.ExecerContext) error {
		for _, stmt := range setup {
			if _, err := execer.ExecContext(context.Background(), stmt, nil); err != nil {
				return fmt.Errorf("duckdb session setup %q: %w", stmt, err)
			}
		}
		return nil
	})
	if err != nil {
		return adapter.MapError(fmt.Errorf("failed to open duckdb connection: %w", err), adapter.SiteConnection)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return adapter.MapError(fmt.Errorf("failed to ping duckdb: %w", err), adapter.SiteConnection)
	}

	a.DB = db
	a.Cfg = cfg
	a.ReportRowsAffected = params.ReportRowsAffected
	return nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sessionStatements renders the LOAD and SET statements run on every new
// connection. Extension and setting names must be plain identifiers.
func sessionStatements(p *Params) ([]string, error) {
	stmts := make([]string, 0, len(p.Extensions)+len(p.Settings))
	for _, ext := range p.Extensions {
		if !identPattern.MatchString(ext) {
			return nil, fmt.Errorf("invalid duckdb extension name %q", ext)
		}
		stmts = append(stmts, "LOAD "+ext)
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !identPattern.MatchString(k) {
			return nil, fmt.Errorf("invalid duckdb setting name %q", k)
		}
		stmts = append(stmts, fmt.Sprintf("SET %s = %s", k, quoteLiteral(p.Settings[k])))
	}
	return stmts, nil
}

func quoteLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
