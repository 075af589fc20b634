package commands

import (
	"github.com/leapstack-labs/keelsql/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP test harness",
		Long: `Run the HTTP test harness against the configured target.

The harness applies its schema migrations on start and exposes routes for
users, transfer transactions and raw statements. It stops on SIGINT or
SIGTERM after draining in-flight requests.`,
		Example: `  keelsql serve
  keelsql serve --addr 127.0.0.1:9000 --target-type sqlite --database :memory:`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	db, cfg, err := openTarget(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	srv := server.New(server.Config{
		DB:     db,
		Addr:   cfg.Server.Addr,
		Logger: GetLogger(cmd.Context()),
	})
	return srv.Serve(cmd.Context())
}
