package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/middleware"
	"vendor-backend/internal/models"
	"vendor-backend/internal/services"
)

type OrderHandler struct {
	service services.OrderService
}

func NewOrderHandler(service services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrder creates an order from catalog items or a plain total
// @Summary Create a new order
// @Description Line totals are unit*qty minus the flat and percentage discounts, floored at zero
// @Tags orders
// @Accept json
// @Produce json
// @Param order body models.CreateOrderRequest true "Order data"
// @Success 201 {object} models.OrderResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, models.OrderResponse{
		Success: true,
		Data:    order,
	})
}

// GetOrder retrieves an order with its items
// @Summary Get order by ID
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.OrderResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.OrderResponse{
		Success: true,
		Data:    order,
	})
}

// ListOrders lists orders
// @Summary List orders
// @Tags orders
// @Produce json
// @Param customerId query int false "Filter by customer"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.OrderListResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit := pageParams(c)
	filters := &models.OrderFilters{}

	if customerID := c.Query("customerId"); customerID != "" {
		id, err := strconv.ParseInt(customerID, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_QUERY", "customerId must be a number")
			return
		}
		filters.CustomerID = &id
	}
	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		filters.Status = &s
	}

	orders, pagination, err := h.service.ListOrders(c.Request.Context(), filters, page, limit)
	if err != nil {
		respondServiceError(c, err, "FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Success:    true,
		Data:       orders,
		Pagination: pagination,
	})
}

// UpdateOrder updates customer, status or total of an order
// @Summary Update order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body models.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} models.OrderResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err, "UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.OrderResponse{
		Success: true,
		Data:    order,
	})
}

// DeleteOrder deletes an order and its items
// @Summary Delete order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.DeleteOrderResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.service.DeleteOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "DELETE_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.DeleteOrderResponse{
		Success: true,
		Message: "Order deleted",
		Order:   order,
	})
}

// RecordPayment records a payment against an order
// @Summary Record order payment
// @Description The acting user comes from X-Actor-Email / X-Actor-Name or the bearer token
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param payment body models.CreatePaymentRequest true "Payment data"
// @Success 201 {object} models.PaymentResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/orders/{id}/payments [post]
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), id, &req, middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err, "PAYMENT_FAILED")
		return
	}

	c.JSON(http.StatusCreated, models.PaymentResponse{
		Success: true,
		Data:    payment,
	})
}

// ListPayments lists the payments of an order with the outstanding balance
// @Summary List order payments
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.PaymentListResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/orders/{id}/payments [get]
func (h *OrderHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, payments)
}
