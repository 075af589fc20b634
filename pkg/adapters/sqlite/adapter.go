package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/keelsql/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver (pure Go)
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
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
	return "sqlite"
}

// Connect opens the SQLite database at cfg.Path.
// An empty path or ":memory:" opens a private in-memory database that is
// shared by every connection of this adapter.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	dsn := buildDSN(cfg.Path, params)
	a.Logger.Debug("connecting to sqlite", slog.String("path", cfg.Path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return adapter.MapError(fmt.Errorf("failed to ping sqlite: %w", err), adapter.SiteConnection)
	}

	a.DB = db
	a.Cfg = cfg
	a.ReportRowsAffected = params.ReportRowsAffected
	return nil
}

// isMemory reports whether path names an in-memory database.
func isMemory(path string) bool {
	return path == "" || path == ":memory:"
}

// buildDSN constructs a modernc.org/sqlite URI with pragmas applied to
// every new connection. The path is escaped, so names containing '?' or
// '#' open the file they name.
func buildDSN(path string, p *Params) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", p.BusyTimeout))
	if p.ForeignKeys != nil && *p.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	}

	name := path
	if isMemory(path) {
		// A memdb name starting with '/' is shared by every connection in
		// the process. Lock contention on it ends in SQLITE_BUSY after
		// busy_timeout.
		name = "/keelsql-" + uuid.NewString()
		q.Set("vfs", "memdb")
	} else {
		q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", strings.ToUpper(p.JournalMode)))
	}

	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: name}).EscapedPath(),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
