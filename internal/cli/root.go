// Package cli implements the vendor-migrate operator commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"vendor-backend/internal/config"
	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
)

// Options carries the process dependencies of the commands
type Options struct {
	// OpenDB connects to the vendor database; defaults to config.InitDB
	OpenDB func(dsn, environment string) (*gorm.DB, error)
}

func NewRootCmd(opts Options) *cobra.Command {
	if opts.OpenDB == nil {
		opts.OpenDB = config.InitDB
	}

	rootCmd := &cobra.Command{
		Use:   "vendor-migrate",
		Short: "vendor-migrate - move legacy vendor products into the catalog service",
		Long: `vendor-migrate copies legacy vendor products into the catalog service and then
repoints order items at the catalog ids. Run "products" first, then "order-items".`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewProductsCmd(opts), NewOrderItemsCmd(opts))

	return rootCmd
}

func newLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// finishRun closes the ledger entry even when the run was cancelled.
// runErr is recorded as the failure and returned unchanged.
func finishRun(ctx context.Context, runs repository.MigrationRunRepository, run *models.MigrationRun, runErr error) error {
	if runErr != nil {
		failure := runErr.Error()
		run.Failure = &failure
	}
	if err := runs.Finish(context.WithoutCancel(ctx), run); err != nil {
		if runErr != nil {
			return fmt.Errorf("%w (failed to finish migration run: %v)", runErr, err)
		}
		return fmt.Errorf("failed to finish migration run: %w", err)
	}
	return runErr
}
