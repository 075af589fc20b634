package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/keelsql/internal/config"
	"github.com/leapstack-labs/keelsql/pkg/adapter"
	"github.com/spf13/cobra"
)

type configKey struct{}

type loggerKey struct{}

// WithConfig stores the loaded configuration and logger in ctx.
func WithConfig(ctx context.Context, cfg *config.Loaded, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetConfig retrieves the config from the command context.
// Commands run without a loaded config get the defaults.
func GetConfig(ctx context.Context) *config.Loaded {
	if c, ok := ctx.Value(configKey{}).(*config.Loaded); ok {
		return c
	}
	return &config.Loaded{Config: config.Default()}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// openTarget connects the adapter named by the loaded config.
func openTarget(cmd *cobra.Command) (adapter.Adapter, *config.Loaded, error) {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	db, err := adapter.Open(ctx, cfg.AdapterConfig(), GetLogger(ctx))
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}
