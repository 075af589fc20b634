package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/leapstack-labs/keelsql/pkg/core"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const (
	promptMain     = "keelsql> "
	promptTx       = "keelsql*> "
	promptContinue = "    ...> "
	historyFile    = ".keelsql_history"
)

// NewShellCommand creates the interactive shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive SQL shell",
		Long: `Start an interactive shell against the configured target.

Statements end with a semicolon and may span lines. Use .begin to open a
transaction; statements then run inside it until .commit or .rollback.`,
		Example: `  keelsql shell
  keelsql shell --target-type duckdb --database :memory:`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	db, cfg, err := openTarget(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	history := ""
	if cfg.File != "" {
		history = filepath.Join(cfg.BaseDir, historyFile)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptMain,
		HistoryFile:     history,
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := newShellSession(db, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output)
	defer s.close(ctx)

	_, _ = fmt.Fprintf(s.out, "%s (%s)\n", s.styles.title.Render("keelsql shell"), cfg.Target.Type)
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			continue
		}
		if err != nil {
			break
		}
		if quit := s.feed(ctx, line); quit {
			break
		}
	}
	return nil
}

type shellStyles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
}

// newShellStyles builds styles for w. Writers that are not terminals get
// plain text.
func newShellStyles(w io.Writer) shellStyles {
	r := lipgloss.NewRenderer(w, termenv.WithColorCache(true))
	return shellStyles{
		title: r.NewStyle().Bold(true),
		ok:    r.NewStyle().Foreground(lipgloss.Color("2")),
		err:   r.NewStyle().Foreground(lipgloss.Color("1")),
		muted: r.NewStyle().Faint(true),
	}
}

// shellSession holds the state of one interactive session independently
// of the line editor driving it.
type shellSession struct {
	db     core.SQL
	tx     core.Transaction
	buf    strings.Builder
	out    io.Writer
	errOut io.Writer
	format string
	styles shellStyles
}

func newShellSession(db core.SQL, out, errOut io.Writer, format string) *shellSession {
	return &shellSession{
		db:     db,
		out:    out,
		errOut: errOut,
		format: format,
		styles: newShellStyles(out),
	}
}

func (s *shellSession) prompt() string {
	switch {
	case s.buf.Len() > 0:
		return promptContinue
	case s.tx != nil:
		return promptTx
	default:
		return promptMain
	}
}

// feed consumes one input line. It reports whether the session should end.
func (s *shellSession) feed(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.dotCommand(ctx, line)
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString(" ")
		return false
	}

	stmt := strings.TrimSpace(strings.TrimSuffix(s.buf.String(), ";"))
	s.buf.Reset()
	if stmt == "" {
		return false
	}
	if err := s.run(ctx, stmt); err != nil {
		s.printErr(err)
	}
	return false
}

// run sends stmt to the open transaction if there is one, otherwise to
// the adapter.
func (s *shellSession) run(ctx context.Context, stmt string) error {
	var target statements = s.db
	if s.tx != nil {
		target = s.tx
	}

	if returnsRows(stmt) {
		res, err := target.Query(ctx, stmt, nil)
		if err != nil {
			return err
		}
		return renderResult(s.out, res, s.format)
	}

	n, err := target.Execute(ctx, stmt, nil)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, s.styles.ok.Render(fmt.Sprintf("OK, %d rows affected", n)))
	return nil
}

func (s *shellSession) dotCommand(ctx context.Context, line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printShellHelp(s.out)
	case ".begin":
		if s.tx != nil {
			s.printErr(errors.New("a transaction is already open"))
			return false
		}
		tx, err := s.db.BeginTransaction(ctx)
		if err != nil {
			s.printErr(err)
			return false
		}
		s.tx = tx
		_, _ = fmt.Fprintln(s.out, s.styles.ok.Render("BEGIN"))
	case ".commit", ".rollback":
		if s.tx == nil {
			s.printErr(errors.New("no open transaction"))
			return false
		}
		var err error
		if command == ".commit" {
			err = s.tx.Commit(ctx)
		} else {
			err = s.tx.Rollback(ctx)
		}
		// The handle is finished either way.
		s.tx = nil
		if err != nil {
			s.printErr(err)
			return false
		}
		_, _ = fmt.Fprintln(s.out, s.styles.ok.Render(strings.ToUpper(command[1:])))
	case ".status":
		if s.tx != nil {
			_, _ = fmt.Fprintln(s.out, "transaction open")
		} else {
			_, _ = fmt.Fprintln(s.out, s.styles.muted.Render("no transaction"))
		}
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// close rolls back a transaction left open when the session ends.
func (s *shellSession) close(ctx context.Context) {
	if s.tx == nil {
		return
	}
	if err := s.tx.Rollback(ctx); err != nil {
		s.printErr(err)
	} else {
		_, _ = fmt.Fprintln(s.out, s.styles.muted.Render("open transaction rolled back"))
	}
	s.tx = nil
}

func (s *shellSession) printErr(err error) {
	_, _ = fmt.Fprintln(s.errOut, s.styles.err.Render("Error: "+err.Error()))
}

type statements interface {
	Query(ctx context.Context, sql string, params []core.Value) (core.QueryResult, error)
	Execute(ctx context.Context, sql string, params []core.Value) (uint64, error)
}

// rowKeywords are leading keywords of statements that produce a result set.
var rowKeywords = map[string]bool{
	"SELECT":    true,
	"WITH":      true,
	"VALUES":    true,
	"TABLE":     true,
	"PRAGMA":    true,
	"SHOW":      true,
	"DESCRIBE":  true,
	"EXPLAIN":   true,
	"SUMMARIZE": true,
}

// returnsRows guesses whether stmt yields rows from its first keyword or
// a RETURNING clause.
func returnsRows(stmt string) bool {
	fields := strings.Fields(strings.ToUpper(stmt))
	if len(fields) == 0 {
		return false
	}
	first := strings.TrimLeft(fields[0], "(")
	if rowKeywords[first] {
		return true
	}
	for _, f := range fields[1:] {
		if f == "RETURNING" {
			return true
		}
	}
	return false
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .begin          Open a transaction
  .commit         Commit the open transaction
  .rollback       Roll back the open transaction
  .status         Show whether a transaction is open
  .quit / .exit   Exit the shell

Tips:
  - SQL statements must end with a semicolon (;)
  - While a transaction is open the prompt shows keelsql*>
  - Leaving the shell rolls back an open transaction
`
	_, _ = fmt.Fprintln(w, help)
}

func newShellCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".begin"),
		readline.PcItem(".commit"),
		readline.PcItem(".rollback"),
		readline.PcItem(".status"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
