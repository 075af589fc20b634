package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &StatementOptions{}

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Run a statement that does not return rows",
		Long: `Run a single DDL or DML statement against the configured target.

The affected row count is 0 unless the target sets the
report_rows_affected param.`,
		Example: `  keelsql exec "CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)"
  keelsql exec "INSERT INTO notes (body) VALUES (?)" -p text:hello`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	addStatementFlags(cmd, opts)
	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *StatementOptions) error {
	sqlText, err := readStatement(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	params, err := parseParams(opts.Params)
	if err != nil {
		return err
	}

	db, _, err := openTarget(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	n, err := db.Execute(cmd.Context(), sqlText, params)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "OK, %d rows affected\n", n)
	return nil
}
