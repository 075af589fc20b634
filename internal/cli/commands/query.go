package commands

import (
	"github.com/spf13/cobra"
)

// StatementOptions holds options shared by the query and exec commands.
type StatementOptions struct {
	Input  string
	Params []string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &StatementOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a statement that returns rows",
		Long: `Run a single SQL statement against the configured target and print
the rows it returns.

SQL is taken from the arguments, from --input, or from stdin when piped.
Positional parameters are bound with --param kind:value in order.`,
		Example: `  # Query with a bound parameter
  keelsql query "SELECT * FROM accounts WHERE id = ?" -p int64:1

  # Read SQL from a file and print JSON
  keelsql query -i report.sql -o json

  # Pipe SQL on stdin
  echo "SELECT 1" | keelsql query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	addStatementFlags(cmd, opts)
	return cmd
}

func addStatementFlags(cmd *cobra.Command, opts *StatementOptions) {
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "Positional parameter as kind:value (repeatable)")
}

func runQuery(cmd *cobra.Command, args []string, opts *StatementOptions) error {
	sqlText, err := readStatement(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	params, err := parseParams(opts.Params)
	if err != nil {
		return err
	}

	db, cfg, err := openTarget(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	res, err := db.Query(cmd.Context(), sqlText, params)
	if err != nil {
		return err
	}
	return renderResult(cmd.OutOrStdout(), res, cfg.Output)
}
