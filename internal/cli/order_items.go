package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vendor-backend/internal/clients"
	"vendor-backend/internal/config"
	"vendor-backend/internal/migration"
	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
)

type OrderItemsOptions struct {
	RequireMarker bool
}

func NewOrderItemsCmd(opts Options) *cobra.Command {
	itemOpts := &OrderItemsOptions{}

	cmd := &cobra.Command{
		Use:   "order-items",
		Short: "Point unmigrated order items at their catalog products",
		RunE: func(c *cobra.Command, args []string) error {
			return runOrderItems(c, opts, itemOpts)
		},
	}

	cmd.Flags().BoolVar(&itemOpts.RequireMarker, "require-marker", false, "Refuse to run unless a completed products migration is recorded")

	return cmd
}

func runOrderItems(c *cobra.Command, opts Options, itemOpts *OrderItemsOptions) error {
	cfg, err := config.LoadOrderItemMigration()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel, c.ErrOrStderr())
	ctx := c.Context()

	db, err := opts.OpenDB(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.MigrationRun{}); err != nil {
		return fmt.Errorf("failed to prepare migration ledger: %w", err)
	}

	runs := repository.NewMigrationRunRepository(db)
	var marker migration.CompletionMarker
	if itemOpts.RequireMarker {
		marker = runs
	}

	run, err := runs.Start(ctx, models.MigrationOrderItems, false)
	if err != nil {
		return fmt.Errorf("failed to record migration run: %w", err)
	}
	runLogger := logger.WithField("run_id", run.RunID)

	catalog := clients.NewCatalogClient("inventory-service", cfg.CatalogURL, cfg.CatalogKey)
	reconciler := migration.NewReconciler(catalog, repository.NewOrderRepository(db), marker, runLogger)

	report, runErr := reconciler.Run(ctx)
	if report != nil {
		run.Processed = report.Total
		run.Succeeded = report.Updated
		run.Skipped = report.Skipped
		run.Failed = report.Failed

		runLogger.WithFields(logrus.Fields{"mapped_products": report.MappedProducts}).Info("Done")
		fmt.Fprintf(c.OutOrStdout(), "mapped=%d total=%d updated=%d skipped=%d failed=%d\n",
			report.MappedProducts, report.Total, report.Updated, report.Skipped, report.Failed)
	}
	return finishRun(ctx, runs, run, runErr)
}
