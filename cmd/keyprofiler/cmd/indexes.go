package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/keyprofiler/internal/config"
	"github.com/dbsmedya/keyprofiler/internal/logger"
	"github.com/dbsmedya/keyprofiler/internal/report"
	"github.com/dbsmedya/keyprofiler/internal/store"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "List full-text search indexes",
	Long: `Indexes lists the store's full-text search indexes without scanning
the keyspace.

For every index it shows:
  - Document count
  - Inverted index size
  - Field attributes and types

Stores without the search module print a one-line notice.

Example:
  keyprofiler indexes --host cache.internal`,
	RunE: runIndexes,
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}

func runIndexes(cmd *cobra.Command, args []string) error {
	cfg, log, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer log.Sync()

	return listIndexes(ctx, cfg, log, cmd.OutOrStdout())
}

func listIndexes(ctx context.Context, cfg *config.Config, log *logger.Logger, out io.Writer) error {
	mgr, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer mgr.Close()

	indexes, listErr := store.ListSearchIndexes(ctx, mgr.Client)
	if listErr != nil && !errors.Is(listErr, store.ErrCapabilityUnavailable) {
		log.Warnw("Failed to list search indexes", "error", listErr)
	}
	report.New(out, report.Options{Color: colorEnabled()}).Indexes(indexes, listErr)
	return nil
}
