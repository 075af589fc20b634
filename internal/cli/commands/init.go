package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/keelsql/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter keelsql.yaml",
		Long: `Write a keelsql.yaml with the default target, optionally adjusted by
--target-type and --database.`,
		Example: `  # Initialize in current directory
  keelsql init

  # Start from a DuckDB target
  keelsql init --target-type duckdb --database analytics.duckdb

  # Force overwrite existing config
  keelsql init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	cfg := config.Default()
	flags := cmd.Flags()
	if f := flags.Lookup("target-type"); f != nil && f.Changed {
		cfg.Target.Type = f.Value.String()
	}
	if f := flags.Lookup("database"); f != nil && f.Changed {
		cfg.Target.Database = f.Value.String()
	}
	config.ApplyTargetDefaults(&cfg.Target)
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := filepath.Join(dir, config.DefaultConfigFile)
	if err := config.WriteFile(path, cfg, force); err != nil {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s target)\n", path, cfg.Target.Type)
	return nil
}
