// Package cli provides the command-line interface for keelsql.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/keelsql/internal/cli/commands"
	"github.com/leapstack-labs/keelsql/internal/config"
	"github.com/spf13/cobra"

	// Backing engines available to every command.
	_ "github.com/leapstack-labs/keelsql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/keelsql/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/keelsql/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// skipConfig lists commands that run without a loaded configuration.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"init":       true,
	"version":    true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "keelsql",
		Short: "keelsql - relational storage adapter",
		Long: `keelsql runs SQL against SQLite, DuckDB and PostgreSQL through one
storage contract: engine-agnostic values, classified errors and explicit
transactions bound to a single connection.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)
			if cfg.File != "" {
				logger.Debug("using config file", slog.String("path", cfg.File))
			}
			logger.Debug("using target", slog.String("type", cfg.Target.Type), slog.String("database", cfg.Target.Database))

			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg, logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (commit %s, built %s)\n", GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./keelsql.yaml)")
	rootCmd.PersistentFlags().String("target-type", "", "Backing engine (sqlite|duckdb|postgres)")
	rootCmd.PersistentFlags().String("database", "", "Database file, :memory:, or database name for network engines")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json|csv)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("target-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "duckdb", "postgres"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewExecCommand())
	rootCmd.AddCommand(commands.NewShellCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger writes debug logs to stderr when verbose and discards them
// otherwise.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for keelsql.

To load completions:

Bash:
  $ source <(keelsql completion bash)

Zsh:
  $ keelsql completion zsh > "${fpath[1]}/_keelsql"

Fish:
  $ keelsql completion fish | source

PowerShell:
  PS> keelsql completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
