// Package migration copies legacy vendor products into the catalog service and
// repoints order items at the catalog ids.
package migration

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"vendor-backend/internal/models"
	"vendor-backend/internal/sku"
)

// DefaultCurrency is the currency of catalog entries created from legacy products
const DefaultCurrency = "MXN"

// ProductSource lists the legacy products to migrate
type ProductSource interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

// CatalogWriter is the part of the catalog client used by the product migration
type CatalogWriter interface {
	Exists(ctx context.Context, sku string) (bool, error)
	Create(ctx context.Context, draft models.ExternalProductDraft) (int64, error)
}

// ProductState is the outcome of one legacy product
type ProductState string

const (
	ProductPending  ProductState = "pending"
	ProductSkipped  ProductState = "skipped"
	ProductMigrated ProductState = "migrated"
	ProductFailed   ProductState = "failed"
)

// ProductResult records what happened to one legacy product
type ProductResult struct {
	ProductID         int64
	Name              string
	SKU               string
	State             ProductState
	ExternalProductID int64
	Err               error
}

// ProductReport summarizes a product migration run
type ProductReport struct {
	Total    int
	Migrated int
	Skipped  int
	Failed   int
	// Pending counts products a dry run would have created
	Pending int
	IDMap   IDMap
	Results []ProductResult
}

// ProductMigrator copies legacy products into the catalog one at a time
type ProductMigrator struct {
	source   ProductSource
	catalog  CatalogWriter
	logger   logrus.FieldLogger
	DryRun   bool
	Currency string
}

// NewProductMigrator creates a product migrator
func NewProductMigrator(source ProductSource, catalog CatalogWriter, logger logrus.FieldLogger) *ProductMigrator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProductMigrator{
		source:   source,
		catalog:  catalog,
		logger:   logger,
		Currency: DefaultCurrency,
	}
}

// Run migrates every legacy product. Per-product failures are recorded in the
// report; only a failure to list the products is returned as an error.
func (m *ProductMigrator) Run(ctx context.Context) (*ProductReport, error) {
	products, err := m.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy products: %w", err)
	}

	report := &ProductReport{
		Total:   len(products),
		IDMap:   make(IDMap),
		Results: make([]ProductResult, 0, len(products)),
	}
	m.logger.WithField("count", len(products)).Info("Migrating legacy products")

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := m.migrate(ctx, product)
		switch result.State {
		case ProductMigrated:
			report.Migrated++
			report.IDMap[product.ID] = result.ExternalProductID
		case ProductSkipped:
			report.Skipped++
		case ProductFailed:
			report.Failed++
		case ProductPending:
			report.Pending++
		}
		report.Results = append(report.Results, result)
	}

	m.logger.WithFields(logrus.Fields{
		"total":    report.Total,
		"migrated": report.Migrated,
		"skipped":  report.Skipped,
		"failed":   report.Failed,
		"pending":  report.Pending,
	}).Info("Product migration finished")

	return report, nil
}

func (m *ProductMigrator) migrate(ctx context.Context, product models.Product) ProductResult {
	code := sku.Generate(product.Name, product.ID)
	result := ProductResult{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       code,
		State:     ProductPending,
	}
	log := m.logger.WithFields(logrus.Fields{
		"product_id":   product.ID,
		"product_name": product.Name,
		"sku":          code,
	})

	exists, err := m.catalog.Exists(ctx, code)
	if err != nil {
		log.WithError(err).Warn("Existence check failed, treating product as absent")
		exists = false
	}
	if exists {
		log.Info("Product already in catalog, skipping")
		result.State = ProductSkipped
		return result
	}

	if m.DryRun {
		log.Info("Dry run: product would be created")
		return result
	}

	externalID, err := m.catalog.Create(ctx, m.draft(product, code))
	if err != nil {
		log.WithError(err).Error("Failed to create catalog product")
		result.State = ProductFailed
		result.Err = err
		return result
	}

	log.WithField("external_product_id", externalID).Info("Product migrated")
	result.State = ProductMigrated
	result.ExternalProductID = externalID
	return result
}

func (m *ProductMigrator) draft(product models.Product, code string) models.ExternalProductDraft {
	currency := m.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	status := product.Status
	if status == "" {
		status = models.ProductStatusActive
	}
	return models.ExternalProductDraft{
		SKU:       code,
		Name:      product.Name,
		Status:    status,
		BasePrice: product.Price,
		Currency:  currency,
		ImageURL:  product.ImageURL,
	}
}
