package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vendor-backend/internal/models"
)

type stubCatalogReader struct {
	refs []models.ExternalProductRef
	err  error
}

func (s *stubCatalogReader) ListByPrefix(ctx context.Context, prefix string) ([]models.ExternalProductRef, error) {
	return s.refs, s.err
}

// MockOrderItemStore is a mock implementation of OrderItemStore
type MockOrderItemStore struct {
	mock.Mock
}

func (m *MockOrderItemStore) ListUnmigratedItems(ctx context.Context) ([]models.OrderItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.OrderItem)
	return items, args.Error(1)
}

func (m *MockOrderItemStore) UpdateItemExternalProduct(ctx context.Context, itemID, externalProductID int64, productSKU *string) error {
	args := m.Called(ctx, itemID, externalProductID, productSKU)
	return args.Error(0)
}

type stubMarker struct {
	done bool
	err  error
}

func (s stubMarker) HasCompleted(ctx context.Context, name string) (bool, error) {
	return s.done, s.err
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func widgetCatalog() *stubCatalogReader {
	return &stubCatalogReader{refs: []models.ExternalProductRef{
		{ID: 101, SKU: "VENDOR-WIDGET-5"},
		{ID: 102, SKU: "VENDOR-GADGET-6"},
	}}
}

func TestReconciler_UpdatesMappedItems(t *testing.T) {
	store := new(MockOrderItemStore)
	store.On("ListUnmigratedItems", mock.Anything).Return([]models.OrderItem{
		{ID: 1, ProductID: int64Ptr(5)},
	}, nil)
	store.On("UpdateItemExternalProduct", mock.Anything, int64(1), int64(101), (*string)(nil)).Return(nil)

	report, err := NewReconciler(widgetCatalog(), store, nil, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.MappedProducts)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, int64(101), report.Results[0].ExternalProductID)
	store.AssertExpectations(t)
}

func TestReconciler_CopiesExistingSKU(t *testing.T) {
	store := new(MockOrderItemStore)
	store.On("ListUnmigratedItems", mock.Anything).Return([]models.OrderItem{
		{ID: 1, ProductID: int64Ptr(6), ProductSKU: strPtr("LEGACY-SKU")},
		{ID: 2, ProductID: int64Ptr(5), ProductSKU: strPtr("")},
	}, nil)
	store.On("UpdateItemExternalProduct", mock.Anything, int64(1), int64(102), mock.MatchedBy(func(s *string) bool {
		return s != nil && *s == "LEGACY-SKU"
	})).Return(nil)
	store.On("UpdateItemExternalProduct", mock.Anything, int64(2), int64(101), (*string)(nil)).Return(nil)

	report, err := NewReconciler(widgetCatalog(), store, nil, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Updated)
	store.AssertExpectations(t)
}

func TestReconciler_SkipsUnmappedItems(t *testing.T) {
	store := new(MockOrderItemStore)
	store.On("ListUnmigratedItems", mock.Anything).Return([]models.OrderItem{
		{ID: 1, ProductID: int64Ptr(5)},
		{ID: 2, ProductID: int64Ptr(99)},
	}, nil)
	store.On("UpdateItemExternalProduct", mock.Anything, int64(1), int64(101), (*string)(nil)).Return(nil)

	report, err := NewReconciler(widgetCatalog(), store, nil, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)
	assert.Equal(t, ItemSkipped, report.Results[1].State)
	assert.NoError(t, report.Results[1].Err)
	store.AssertNotCalled(t, "UpdateItemExternalProduct", mock.Anything, int64(2), mock.Anything, mock.Anything)
}

func TestReconciler_RowFailureDoesNotAbortBatch(t *testing.T) {
	store := new(MockOrderItemStore)
	store.On("ListUnmigratedItems", mock.Anything).Return([]models.OrderItem{
		{ID: 1, ProductID: int64Ptr(5)},
		{ID: 2, ProductID: int64Ptr(6)},
	}, nil)
	store.On("UpdateItemExternalProduct", mock.Anything, int64(1), int64(101), mock.Anything).Return(errors.New("deadlock"))
	store.On("UpdateItemExternalProduct", mock.Anything, int64(2), int64(102), mock.Anything).Return(nil)

	report, err := NewReconciler(widgetCatalog(), store, nil, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Updated)
	assert.EqualError(t, report.Results[0].Err, "deadlock")
}

func TestReconciler_EmptyCatalogAborts(t *testing.T) {
	catalog := &stubCatalogReader{refs: []models.ExternalProductRef{{ID: 9, SKU: "OTHER-THING"}}}
	store := new(MockOrderItemStore)

	report, err := NewReconciler(catalog, store, nil, quietLogger()).Run(context.Background())
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNoMigratedProducts)
	store.AssertNotCalled(t, "ListUnmigratedItems", mock.Anything)
}

func TestReconciler_CatalogErrorIsFatal(t *testing.T) {
	catalog := &stubCatalogReader{err: errors.New("inventory unavailable")}

	_, err := NewReconciler(catalog, new(MockOrderItemStore), nil, quietLogger()).Run(context.Background())
	assert.ErrorContains(t, err, "inventory unavailable")
	assert.NotErrorIs(t, err, ErrNoMigratedProducts)
}

func TestReconciler_RequiresMarker(t *testing.T) {
	store := new(MockOrderItemStore)

	_, err := NewReconciler(widgetCatalog(), store, stubMarker{done: false}, quietLogger()).Run(context.Background())
	assert.ErrorIs(t, err, ErrMigrationMarkerMissing)

	store.On("ListUnmigratedItems", mock.Anything).Return([]models.OrderItem{}, nil)
	report, err := NewReconciler(widgetCatalog(), store, stubMarker{done: true}, quietLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Total)
}

func TestReconciler_ApplyAfterProductMigration(t *testing.T) {
	catalog := newMemoryCatalog()
	products, err := NewProductMigrator(&stubProductSource{products: legacyProducts()}, catalog, quietLogger()).Run(context.Background())
	require.NoError(t, err)

	store := new(MockOrderItemStore)
	store.On("ListUnmigratedItems", mock.Anything).Return([]models.OrderItem{{ID: 7, ProductID: int64Ptr(6)}}, nil)
	store.On("UpdateItemExternalProduct", mock.Anything, int64(7), products.IDMap[6], (*string)(nil)).Return(nil)

	// the map rebuilt from the catalog matches the one the migration produced
	report, err := NewReconciler(catalog, store, nil, quietLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	store.AssertExpectations(t)
}
