package handlers

import "github.com/gin-gonic/gin"

// Handlers groups the handlers mounted under /v1
type Handlers struct {
	Customers        *CustomerHandler
	Orders           *OrderHandler
	APIKeys          *APIKeyHandler
	ExternalProducts *ExternalProductHandler
	Shipments        *ShipmentHandler
}

// Register mounts every API route on the given group
func (h *Handlers) Register(v1 *gin.RouterGroup) {
	customers := v1.Group("/customers")
	{
		customers.POST("", h.Customers.CreateCustomer)
		customers.GET("", h.Customers.ListCustomers)
		customers.GET("/:id", h.Customers.GetCustomer)
		customers.PUT("/:id", h.Customers.UpdateCustomer)
		customers.DELETE("/:id", h.Customers.DeleteCustomer)
	}

	orders := v1.Group("/orders")
	{
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("", h.Orders.ListOrders)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.PUT("/:id", h.Orders.UpdateOrder)
		orders.DELETE("/:id", h.Orders.DeleteOrder)
		orders.POST("/:id/payments", h.Orders.RecordPayment)
		orders.GET("/:id/payments", h.Orders.ListPayments)
	}

	apiKeys := v1.Group("/api-keys")
	{
		apiKeys.POST("", h.APIKeys.CreateAPIKey)
		apiKeys.GET("", h.APIKeys.ListAPIKeys)
		apiKeys.DELETE("/:id", h.APIKeys.RevokeAPIKey)
	}

	externalProducts := v1.Group("/external-products")
	{
		externalProducts.GET("", h.ExternalProducts.ListExternalProducts)
		externalProducts.GET("/:id", h.ExternalProducts.GetExternalProduct)
	}

	v1.GET("/shipments", h.Shipments.ListShipments)
}
