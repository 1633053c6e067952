package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendor-backend/internal/clients"
	"vendor-backend/internal/middleware"
	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
	"vendor-backend/internal/services"
	"vendor-backend/internal/testutil"
)

type fakeCatalog map[int64]models.ExternalProduct

func (f fakeCatalog) GetExternalProduct(ctx context.Context, id int64) (*models.ExternalProduct, error) {
	p, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("inventory-service: %w", clients.ErrNotFound)
	}
	return &p, nil
}

func newAPIRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)

	customerRepo := repository.NewCustomerRepository(db)
	catalog := fakeCatalog{
		101: {ID: 101, SKU: "VENDOR-WIDGET-5", Name: "Widget", BasePrice: decimal.RequireFromString("19.90")},
	}
	apiKeys := services.NewAPIKeyService(repository.NewAPIKeyRepository(db))

	h := &Handlers{
		Customers:        NewCustomerHandler(services.NewCustomerService(customerRepo)),
		Orders:           NewOrderHandler(services.NewOrderService(repository.NewOrderRepository(db), customerRepo, catalog, nil)),
		APIKeys:          NewAPIKeyHandler(apiKeys),
		ExternalProducts: NewExternalProductHandler(clients.NewCatalogClient("inventory-service", "http://127.0.0.1:0", "")),
		Shipments:        NewShipmentHandler(clients.NewShipmentsClient("http://127.0.0.1:0", "")),
	}

	router := gin.New()
	v1 := router.Group("/v1")
	v1.Use(middleware.RequestID(), middleware.Auth(middleware.AuthConfig{StaticKey: "test-key", Keys: apiKeys}), middleware.ActorMiddleware())
	h.Register(v1)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, target string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "test-key")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestCustomerEndpoints(t *testing.T) {
	router := newAPIRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/customers", map[string]string{"name": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var customer models.Customer
	decodeData(t, w, &customer)

	w = doJSON(t, router, http.MethodPost, "/v1/customers", map[string]string{"name": "Dup", "email": "ana@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/customers", map[string]string{"name": "No email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/customers/%d", customer.ID), map[string]string{"name": "Ana María"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &customer)
	assert.Equal(t, "Ana María", customer.Name)

	w = doJSON(t, router, http.MethodGet, "/v1/customers?search=ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.CustomerListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)
	assert.Equal(t, int64(1), list.Pagination.Total)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/customers/%d", customer.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted models.DeleteCustomerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, "ana@example.com", deleted.Customer.Email)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/customers/%d", customer.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/customers/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderEndpoints(t *testing.T) {
	router := newAPIRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/customers", map[string]string{"name": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var customer models.Customer
	decodeData(t, w, &customer)

	w = doJSON(t, router, http.MethodPost, "/v1/orders", map[string]interface{}{
		"customerId": customer.ID,
		"items": []map[string]interface{}{
			{"externalProductId": 101, "quantity": 2, "discountPercent": "10"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decodeData(t, w, &order)
	assert.True(t, decimal.RequireFromString("35.82").Equal(order.Total))
	assert.Equal(t, "Ana", order.CustomerName)

	w = doJSON(t, router, http.MethodPost, "/v1/orders", map[string]interface{}{
		"customerId": customer.ID,
		"items":      []map[string]interface{}{{"externalProductId": 999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/orders/%d/payments", order.ID),
		map[string]interface{}{"amount": "20", "method": "card"},
		"X-Actor-Email", "ops@example.com", "X-Actor-Name", "Ops")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var payment models.OrderPayment
	decodeData(t, w, &payment)
	require.NotNil(t, payment.RecordedByEmail)
	assert.Equal(t, "ops@example.com", *payment.RecordedByEmail)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/orders/%d/payments", order.ID),
		map[string]interface{}{"amount": "5", "method": "barter"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/orders/%d/payments", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments models.PaymentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payments))
	assert.True(t, decimal.RequireFromString("15.82").Equal(payments.Balance))

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/orders/%d", order.ID), map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &order)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)

	w = doJSON(t, router, http.MethodGet, "/v1/orders?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/orders/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIKeyEndpoints(t *testing.T) {
	router := newAPIRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/api-keys", map[string]string{"name": "dashboard"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.CreatedAPIKey
	decodeData(t, w, &created)
	require.NotEmpty(t, created.Key)
	assert.NotContains(t, w.Body.String(), "keyHash")

	// the issued key authenticates on its own
	req := httptest.NewRequest(http.MethodGet, "/v1/api-keys", nil)
	req.Header.Set("X-API-Key", created.Key)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), created.Key)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/api-keys/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/api-keys", nil)
	req.Header.Set("X-API-Key", created.Key)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	router := gin.New()
	h := NewHealthHandler(sqlDB)
	router.GET("/health", h.HealthCheck)
	router.GET("/ready", h.ReadinessCheck)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ready").Code)

	require.NoError(t, sqlDB.Close())
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodGet, "/ready").Code)
}
