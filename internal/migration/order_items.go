package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"vendor-backend/internal/models"
	"vendor-backend/internal/sku"
)

var (
	// ErrNoMigratedProducts means the catalog holds no vendor SKUs yet
	ErrNoMigratedProducts = errors.New("no migrated products found in the catalog; run the products migration first")
	// ErrMigrationMarkerMissing means no finished products migration was recorded
	ErrMigrationMarkerMissing = errors.New("no completed products migration recorded; run the products migration first")
)

// CatalogReader is the part of the catalog client used by the reconciliation
type CatalogReader interface {
	ListByPrefix(ctx context.Context, prefix string) ([]models.ExternalProductRef, error)
}

// OrderItemStore reads and patches order items still pointing at legacy products
type OrderItemStore interface {
	ListUnmigratedItems(ctx context.Context) ([]models.OrderItem, error)
	UpdateItemExternalProduct(ctx context.Context, itemID, externalProductID int64, productSKU *string) error
}

// CompletionMarker reports whether a migration has finished
type CompletionMarker interface {
	HasCompleted(ctx context.Context, name string) (bool, error)
}

// ItemState is the outcome of one order item
type ItemState string

const (
	ItemUpdated ItemState = "updated"
	ItemSkipped ItemState = "skipped"
	ItemFailed  ItemState = "failed"
)

// ItemResult records what happened to one order item
type ItemResult struct {
	OrderItemID       int64
	ProductID         int64
	ExternalProductID int64
	State             ItemState
	Err               error
}

// ReconcileReport summarizes an order-item reconciliation run
type ReconcileReport struct {
	MappedProducts int
	Total          int
	Updated        int
	Skipped        int
	Failed         int
	Results        []ItemResult
}

// Reconciler repoints unmigrated order items at catalog product ids
type Reconciler struct {
	catalog CatalogReader
	items   OrderItemStore
	marker  CompletionMarker
	logger  logrus.FieldLogger
}

// NewReconciler creates a reconciler. marker may be nil when no completion
// marker is required.
func NewReconciler(catalog CatalogReader, items OrderItemStore, marker CompletionMarker, logger logrus.FieldLogger) *Reconciler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reconciler{
		catalog: catalog,
		items:   items,
		marker:  marker,
		logger:  logger,
	}
}

// Run rebuilds the id mapping from the catalog and applies it to order items
func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	if r.marker != nil {
		done, err := r.marker.HasCompleted(ctx, models.MigrationProducts)
		if err != nil {
			return nil, fmt.Errorf("failed to check migration marker: %w", err)
		}
		if !done {
			return nil, ErrMigrationMarkerMissing
		}
	}

	refs, err := r.catalog.ListByPrefix(ctx, sku.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list migrated products: %w", err)
	}

	idMap := BuildIDMap(sku.Prefix, refs)
	if len(idMap) == 0 {
		return nil, ErrNoMigratedProducts
	}
	r.logger.WithField("mapped_products", len(idMap)).Info("Rebuilt product id mapping from catalog")

	return r.Apply(ctx, idMap)
}

// Apply patches every unmigrated order item found in idMap. Items with no
// mapping are skipped; a failed update is recorded and the batch continues.
func (r *Reconciler) Apply(ctx context.Context, idMap IDMap) (*ReconcileReport, error) {
	items, err := r.items.ListUnmigratedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmigrated order items: %w", err)
	}

	report := &ReconcileReport{
		MappedProducts: len(idMap),
		Total:          len(items),
		Results:        make([]ItemResult, 0, len(items)),
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := r.reconcile(ctx, idMap, item)
		switch result.State {
		case ItemUpdated:
			report.Updated++
		case ItemSkipped:
			report.Skipped++
		case ItemFailed:
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	r.logger.WithFields(logrus.Fields{
		"total":   report.Total,
		"updated": report.Updated,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("Order item reconciliation finished")

	return report, nil
}

func (r *Reconciler) reconcile(ctx context.Context, idMap IDMap, item models.OrderItem) ItemResult {
	result := ItemResult{OrderItemID: item.ID}
	log := r.logger.WithField("order_item_id", item.ID)

	if item.ProductID == nil {
		result.State = ItemSkipped
		return result
	}
	result.ProductID = *item.ProductID
	log = log.WithField("product_id", *item.ProductID)

	externalID, ok := idMap.Lookup(*item.ProductID)
	if !ok {
		log.Warn("Product was never migrated, skipping order item")
		result.State = ItemSkipped
		return result
	}
	result.ExternalProductID = externalID

	var productSKU *string
	if item.ProductSKU != nil && *item.ProductSKU != "" {
		productSKU = item.ProductSKU
	}

	if err := r.items.UpdateItemExternalProduct(ctx, item.ID, externalID, productSKU); err != nil {
		log.WithError(err).Error("Failed to update order item")
		result.State = ItemFailed
		result.Err = err
		return result
	}

	log.WithField("external_product_id", externalID).Info("Order item updated")
	result.State = ItemUpdated
	return result
}
