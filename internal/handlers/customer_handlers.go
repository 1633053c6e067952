package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/models"
	"vendor-backend/internal/services"
)

type CustomerHandler struct {
	service services.CustomerService
}

func NewCustomerHandler(service services.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// CreateCustomer creates a new customer
// @Summary Create a new customer
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body models.CreateCustomerRequest true "Customer data"
// @Success 201 {object} models.CustomerResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "CREATE_FAILED")
		return
	}

	c.JSON(http.StatusCreated, models.CustomerResponse{
		Success: true,
		Data:    customer,
	})
}

// GetCustomer retrieves a customer by ID
// @Summary Get customer by ID
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.CustomerResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.CustomerResponse{
		Success: true,
		Data:    customer,
	})
}

// ListCustomers lists customers with optional search
// @Summary List customers
// @Tags customers
// @Produce json
// @Param search query string false "Matches name or email"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.CustomerListResponse
// @Security ApiKeyAuth
// @Router /v1/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	page, limit := pageParams(c)
	filters := &models.CustomerFilters{Search: strings.TrimSpace(c.Query("search"))}

	customers, pagination, err := h.service.ListCustomers(c.Request.Context(), filters, page, limit)
	if err != nil {
		respondServiceError(c, err, "FETCH_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.CustomerListResponse{
		Success:    true,
		Data:       customers,
		Pagination: pagination,
	})
}

// UpdateCustomer updates a customer
// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param customer body models.UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} models.CustomerResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err, "UPDATE_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.CustomerResponse{
		Success: true,
		Data:    customer,
	})
}

// DeleteCustomer deletes a customer
// @Summary Delete customer
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.DeleteCustomerResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.service.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "DELETE_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.DeleteCustomerResponse{
		Success:  true,
		Message:  "Customer deleted",
		Customer: customer,
	})
}
