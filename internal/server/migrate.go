package server

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

// migrationDirs maps adapter driver names to goose dialects and the
// embedded directory holding their migrations.
var migrationDirs = map[string]struct {
	dialect string
	dir     string
}{
	"sqlite": {dialect: "sqlite3", dir: "migrations/sqlite"},
	"pgx":    {dialect: "postgres", dir: "migrations/postgres"},
}

// sqlDBer is implemented by adapters built on adapter.BaseSQLAdapter.
type sqlDBer interface {
	SQLDB() *sql.DB
}

// Migrate creates the harness tables. Only SQLite and PostgreSQL targets
// are supported.
func (s *Server) Migrate(ctx context.Context) error {
	m, ok := migrationDirs[s.db.DriverName()]
	if !ok {
		return fmt.Errorf("harness migrations are not available for driver %q", s.db.DriverName())
	}

	h, ok := s.db.(sqlDBer)
	if !ok || h.SQLDB() == nil {
		return fmt.Errorf("adapter does not expose a database handle")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, h.SQLDB(), m.dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.logger.Debug("harness migrations applied", "dialect", m.dialect)
	return nil
}
