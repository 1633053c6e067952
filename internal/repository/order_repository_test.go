package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vendor-backend/internal/models"
	"vendor-backend/internal/testutil"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func seedCustomer(t *testing.T, repo CustomerRepository, name, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{Name: name, Email: email}
	require.NoError(t, repo.Create(context.Background(), customer))
	return customer
}

func seedOrder(t *testing.T, repo OrderRepository, customerID int64, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		CustomerID: customerID,
		Status:     models.OrderStatusPending,
		Total:      decimal.NewFromInt(10),
		Items:      items,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func legacyItem(productID int64) models.OrderItem {
	return models.OrderItem{
		ProductID:   int64Ptr(productID),
		ProductName: "Widget",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(10),
		LineTotal:   decimal.NewFromInt(10),
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	customers := NewCustomerRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	customer := seedCustomer(t, customers, "Ana", "ana@example.com")
	created := seedOrder(t, orders, customer.ID, legacyItem(5), legacyItem(6))

	got, err := orders.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Ana", got.CustomerName)
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(5), *got.Items[0].ProductID)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Total))
}

func TestOrderRepository_GetMissing(t *testing.T) {
	orders := NewOrderRepository(testutil.NewTestDB(t))

	_, err := orders.GetByID(context.Background(), 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestOrderRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	customers := NewCustomerRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	ana := seedCustomer(t, customers, "Ana", "ana@example.com")
	luis := seedCustomer(t, customers, "Luis", "luis@example.com")
	seedOrder(t, orders, ana.ID)
	seedOrder(t, orders, ana.ID)
	seedOrder(t, orders, luis.ID)

	list, pagination, err := orders.List(ctx, &models.OrderFilters{CustomerID: &ana.ID}, 1, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(2), pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.Equal(t, "Ana", list[0].CustomerName)

	shipped := models.OrderStatusShipped
	list, _, err = orders.List(ctx, &models.OrderFilters{Status: &shipped}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	customers := NewCustomerRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	customer := seedCustomer(t, customers, "Ana", "ana@example.com")
	order := seedOrder(t, orders, customer.ID, legacyItem(5))

	require.NoError(t, orders.Update(ctx, order.ID, map[string]interface{}{"status": models.OrderStatusShipped}))
	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, got.Status)

	require.NoError(t, orders.AddPayment(ctx, &models.OrderPayment{OrderID: order.ID, Amount: decimal.NewFromInt(4), Method: models.PaymentMethodCash}))
	require.NoError(t, orders.Delete(ctx, order.ID))

	var items, payments int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items)
	db.Model(&models.OrderPayment{}).Where("order_id = ?", order.ID).Count(&payments)
	assert.Zero(t, items)
	assert.Zero(t, payments)

	assert.ErrorIs(t, orders.Delete(ctx, order.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, orders.Update(ctx, order.ID, map[string]interface{}{"status": models.OrderStatusCancelled}), gorm.ErrRecordNotFound)
}

func TestOrderRepository_Payments(t *testing.T) {
	db := testutil.NewTestDB(t)
	customer := seedCustomer(t, NewCustomerRepository(db), "Ana", "ana@example.com")
	orders := NewOrderRepository(db)
	ctx := context.Background()
	order := seedOrder(t, orders, customer.ID)

	payment := &models.OrderPayment{
		OrderID:         order.ID,
		Amount:          decimal.RequireFromString("7.50"),
		Method:          models.PaymentMethodCard,
		RecordedByEmail: strPtr("ops@example.com"),
	}
	require.NoError(t, orders.AddPayment(ctx, payment))
	assert.False(t, payment.PaidAt.IsZero())

	payments, err := orders.GetPayments(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, decimal.RequireFromString("7.5").Equal(payments[0].Amount))
	assert.Equal(t, "ops@example.com", *payments[0].RecordedByEmail)
}

func TestOrderRepository_UnmigratedItems(t *testing.T) {
	db := testutil.NewTestDB(t)
	customer := seedCustomer(t, NewCustomerRepository(db), "Ana", "ana@example.com")
	orders := NewOrderRepository(db)
	ctx := context.Background()

	migrated := legacyItem(6)
	migrated.ExternalProductID = int64Ptr(102)
	catalogOnly := models.OrderItem{
		ExternalProductID: int64Ptr(103),
		ProductName:       "Catalog item",
		Quantity:          1,
		UnitPrice:         decimal.NewFromInt(1),
		LineTotal:         decimal.NewFromInt(1),
	}
	seedOrder(t, orders, customer.ID, legacyItem(5), migrated, catalogOnly)

	items, err := orders.ListUnmigratedItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), *items[0].ProductID)

	require.NoError(t, orders.UpdateItemExternalProduct(ctx, items[0].ID, 101, strPtr("VENDOR-WIDGET-5")))

	var updated models.OrderItem
	require.NoError(t, db.First(&updated, items[0].ID).Error)
	assert.Equal(t, int64(5), *updated.ProductID)
	assert.Equal(t, int64(101), *updated.ExternalProductID)
	assert.Equal(t, "VENDOR-WIDGET-5", *updated.ProductSKU)

	// a second pass has nothing left to do
	items, err = orders.ListUnmigratedItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, orders.UpdateItemExternalProduct(ctx, updated.ID, 200, nil), gorm.ErrRecordNotFound)
}

func TestOrderRepository_UpdateItemClearsEmptySKU(t *testing.T) {
	db := testutil.NewTestDB(t)
	customer := seedCustomer(t, NewCustomerRepository(db), "Ana", "ana@example.com")
	orders := NewOrderRepository(db)
	order := seedOrder(t, orders, customer.ID, legacyItem(5))

	require.NoError(t, orders.UpdateItemExternalProduct(context.Background(), order.Items[0].ID, 101, nil))

	var updated models.OrderItem
	require.NoError(t, db.First(&updated, order.Items[0].ID).Error)
	assert.Nil(t, updated.ProductSKU)
	assert.Equal(t, int64(101), *updated.ExternalProductID)
}
