package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vendor-backend/internal/clients"
	"vendor-backend/internal/config"
	"vendor-backend/internal/migration"
	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
)

type ProductsOptions struct {
	DryRun   bool
	Currency string
}

func NewProductsCmd(opts Options) *cobra.Command {
	productOpts := &ProductsOptions{}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Copy legacy vendor products into the catalog service",
		RunE: func(c *cobra.Command, args []string) error {
			return runProducts(c, opts, productOpts)
		},
	}

	cmd.Flags().BoolVar(&productOpts.DryRun, "dry-run", false, "Only check which products exist; create nothing")
	cmd.Flags().StringVar(&productOpts.Currency, "currency", migration.DefaultCurrency, "Currency of the created catalog entries")

	return cmd
}

func runProducts(c *cobra.Command, opts Options, productOpts *ProductsOptions) error {
	cfg, err := config.LoadProductMigration()
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
	run, err := runs.Start(ctx, models.MigrationProducts, productOpts.DryRun)
	if err != nil {
		return fmt.Errorf("failed to record migration run: %w", err)
	}
	runLogger := logger.WithFields(logrus.Fields{"run_id": run.RunID, "dry_run": productOpts.DryRun})

	catalog := clients.NewCatalogClient("logistic-service", cfg.CatalogURL, cfg.CatalogKey)
	migrator := migration.NewProductMigrator(repository.NewProductRepository(db), catalog, runLogger)
	migrator.DryRun = productOpts.DryRun
	migrator.Currency = productOpts.Currency

	report, runErr := migrator.Run(ctx)
	if report != nil {
		run.Processed = report.Total
		run.Succeeded = report.Migrated
		run.Skipped = report.Skipped
		run.Failed = report.Failed

		printIDMap(c.OutOrStdout(), report.IDMap)
		fmt.Fprintf(c.OutOrStdout(), "total=%d migrated=%d skipped=%d failed=%d pending=%d\n",
			report.Total, report.Migrated, report.Skipped, report.Failed, report.Pending)
	}
	return finishRun(ctx, runs, run, runErr)
}

func printIDMap(out io.Writer, idMap migration.IDMap) {
	for _, legacyID := range idMap.LegacyIDs() {
		fmt.Fprintf(out, "%d -> %d\n", legacyID, idMap[legacyID])
	}
}
