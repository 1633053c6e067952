package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known order statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod represents how an order payment was made
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

// Order represents a customer order
type Order struct {
	ID           int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerID   int64           `json:"customerId" gorm:"not null;index"`
	CustomerName string          `json:"customerName,omitempty" gorm:"-"`
	Status       OrderStatus     `json:"status" gorm:"not null;default:'pending'"`
	Total        decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Items        []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// OrderItem is a single order line.
//
// ProductID is the legacy vendor product reference and ExternalProductID the
// catalog reference. A row with ProductID set and ExternalProductID nil has not
// been reconciled yet; reconciliation keeps ProductID for audit.
type OrderItem struct {
	ID                int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID           int64           `json:"orderId" gorm:"not null;index"`
	ProductID         *int64          `json:"productId,omitempty" gorm:"index"`
	ExternalProductID *int64          `json:"externalProductId,omitempty" gorm:"index"`
	ProductSKU        *string         `json:"productSku,omitempty" gorm:"column:product_sku"`
	ProductName       string          `json:"productName"`
	Quantity          int             `json:"quantity" gorm:"not null"`
	UnitPrice         decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	DiscountAmount    decimal.Decimal `json:"discountAmount" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountPercent   decimal.Decimal `json:"discountPercent" gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal         decimal.Decimal `json:"lineTotal" gorm:"type:decimal(12,2);not null"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderPayment records money received against an order
type OrderPayment struct {
	ID              int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID         int64           `json:"orderId" gorm:"not null;index"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Method          PaymentMethod   `json:"method" gorm:"not null"`
	Reference       *string         `json:"reference,omitempty"`
	PaidAt          time.Time       `json:"paidAt"`
	RecordedByEmail *string         `json:"recordedByEmail,omitempty"`
	RecordedByName  *string         `json:"recordedByName,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CreateOrderItemRequest is a draft order line
type CreateOrderItemRequest struct {
	ExternalProductID int64            `json:"externalProductId" binding:"required,gt=0"`
	Quantity          int              `json:"quantity" binding:"required,gt=0"`
	UnitPriceFinal    *decimal.Decimal `json:"unitPriceFinal,omitempty"`
	DiscountAmount    *decimal.Decimal `json:"discountAmount,omitempty"`
	DiscountPercent   *decimal.Decimal `json:"discountPercent,omitempty"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID int64                    `json:"customerId" binding:"required,gt=0"`
	Status     *OrderStatus             `json:"status,omitempty"`
	Items      []CreateOrderItemRequest `json:"items,omitempty" binding:"omitempty,dive"`
	Total      *decimal.Decimal         `json:"total,omitempty"`
}

// UpdateOrderRequest represents a request to update an order
type UpdateOrderRequest struct {
	CustomerID *int64           `json:"customerId,omitempty"`
	Status     *OrderStatus     `json:"status,omitempty"`
	Total      *decimal.Decimal `json:"total,omitempty"`
}

// CreatePaymentRequest represents a request to record an order payment
type CreatePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method" binding:"required,oneof=cash card transfer other"`
	Reference *string         `json:"reference,omitempty"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
}

// OrderFilters represents filters for order queries
type OrderFilters struct {
	CustomerID *int64
	Status     *OrderStatus
}

// OrderResponse represents a single order response
type OrderResponse struct {
	Success bool   `json:"success"`
	Data    *Order `json:"data"`
}

// OrderListResponse represents a list of orders response
type OrderListResponse struct {
	Success    bool            `json:"success"`
	Data       []Order         `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// DeleteOrderResponse mirrors the deleted record back to the caller
type DeleteOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *Order `json:"order"`
}

// PaymentResponse represents a recorded payment response
type PaymentResponse struct {
	Success bool          `json:"success"`
	Data    *OrderPayment `json:"data"`
}

// PaymentListResponse lists the payments of an order with the outstanding balance
type PaymentListResponse struct {
	Success bool            `json:"success"`
	Data    []OrderPayment  `json:"data"`
	Paid    decimal.Decimal `json:"paid"`
	Balance decimal.Decimal `json:"balance"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// TableName returns the table name for the OrderPayment model
func (OrderPayment) TableName() string {
	return "order_payments"
}
