package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/keyprofiler/internal/config"
	"github.com/dbsmedya/keyprofiler/internal/logger"
	"github.com/dbsmedya/keyprofiler/internal/store"
)

// Connection retry policy, shortened in tests.
var (
	connectRetries = 3
	connectBackoff = time.Second
)

// setup loads the configuration, builds the logger and returns a context
// cancelled on SIGINT/SIGTERM.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := store.SetupSignalHandler(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - discarding partial results", "signal", sig.String())
	})
	return cfg, log, ctx, cancel, nil
}

// connect opens and verifies the store connection.
func connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store.Manager, error) {
	log.Infow("Connecting to store",
		"addr", cfg.Store.Addr(),
		"db", cfg.Store.DB,
	)

	mgr := store.NewManager(cfg, log).WithRetry(connectRetries, connectBackoff)
	if err := mgr.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	log.Infow("Connected successfully", "addr", cfg.Store.Addr())
	return mgr, nil
}

// colorEnabled reports whether the report may use ANSI colours.
func colorEnabled() bool {
	return !noColor && color.SupportColor()
}
