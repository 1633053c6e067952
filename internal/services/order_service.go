package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vendor-backend/internal/clients"
	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// ProductLookup resolves catalog products for new order lines
type ProductLookup interface {
	GetExternalProduct(ctx context.Context, id int64) (*models.ExternalProduct, error)
}

// OrderEventPublisher announces order changes to other services
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error
	PublishPaymentRecorded(ctx context.Context, order *models.Order, payment *models.OrderPayment) error
}

// OrderService handles business logic for orders and their payments
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrder(ctx context.Context, id int64, req *models.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, filters *models.OrderFilters, page, limit int) ([]models.Order, *models.PaginationInfo, error)

	// Payment management
	RecordPayment(ctx context.Context, orderID int64, req *models.CreatePaymentRequest, actor models.Actor) (*models.OrderPayment, error)
	ListPayments(ctx context.Context, orderID int64) (*models.PaymentListResponse, error)
}

type orderService struct {
	repo      repository.OrderRepository
	customers repository.CustomerRepository
	catalog   ProductLookup
	events    OrderEventPublisher // Optional
}

// NewOrderService creates a new order service instance. events may be nil.
func NewOrderService(repo repository.OrderRepository, customers repository.CustomerRepository, catalog ProductLookup, events OrderEventPublisher) OrderService {
	return &orderService{
		repo:      repo,
		customers: customers,
		catalog:   catalog,
		events:    events,
	}
}

// LineTotal is unit*qty minus the flat discount and the percentage discount,
// floored at zero and rounded to cents.
func LineTotal(unitPrice decimal.Decimal, quantity int, discountAmount, discountPercent decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	percentOff := gross.Mul(discountPercent).Div(hundred)
	total := gross.Sub(discountAmount).Sub(percentOff)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

func (s *orderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := s.ensureCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	status := models.OrderStatusPending
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalid("status", "unknown order status %q", *req.Status)
		}
		status = *req.Status
	}

	order := &models.Order{
		CustomerID: req.CustomerID,
		Status:     status,
	}

	switch {
	case len(req.Items) > 0:
		total := decimal.Zero
		for i, itemReq := range req.Items {
			item, err := s.buildItem(ctx, i, itemReq)
			if err != nil {
				return nil, err
			}
			total = total.Add(item.LineTotal)
			order.Items = append(order.Items, *item)
		}
		order.Total = total
	case req.Total != nil:
		if req.Total.IsNegative() {
			return nil, invalid("total", "must not be negative")
		}
		order.Total = req.Total.Round(2)
	default:
		return nil, invalid("items", "an order needs items or a total")
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	created, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, created); err != nil {
			logrus.WithError(err).WithField("order_id", created.ID).Warn("Failed to publish order created event")
		}
	}
	return created, nil
}

func (s *orderService) buildItem(ctx context.Context, index int, req models.CreateOrderItemRequest) (*models.OrderItem, error) {
	field := fmt.Sprintf("items[%d]", index)
	if req.Quantity <= 0 {
		return nil, invalid(field+".quantity", "must be greater than zero")
	}

	discountAmount := decimal.Zero
	if req.DiscountAmount != nil {
		discountAmount = *req.DiscountAmount
	}
	if discountAmount.IsNegative() {
		return nil, invalid(field+".discountAmount", "must not be negative")
	}

	discountPercent := decimal.Zero
	if req.DiscountPercent != nil {
		discountPercent = *req.DiscountPercent
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, invalid(field+".discountPercent", "must be between 0 and 100")
	}

	product, err := s.catalog.GetExternalProduct(ctx, req.ExternalProductID)
	if err != nil {
		if clients.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, req.ExternalProductID)
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	unitPrice := product.BasePrice
	if req.UnitPriceFinal != nil {
		if req.UnitPriceFinal.IsNegative() {
			return nil, invalid(field+".unitPriceFinal", "must not be negative")
		}
		unitPrice = *req.UnitPriceFinal
	}

	externalID := product.ID
	var productSKU *string
	if product.SKU != "" {
		code := product.SKU
		productSKU = &code
	}

	return &models.OrderItem{
		ExternalProductID: &externalID,
		ProductSKU:        productSKU,
		ProductName:       product.Name,
		Quantity:          req.Quantity,
		UnitPrice:         unitPrice,
		DiscountAmount:    discountAmount,
		DiscountPercent:   discountPercent,
		LineTotal:         LineTotal(unitPrice, req.Quantity, discountAmount, discountPercent),
	}, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *orderService) UpdateOrder(ctx context.Context, id int64, req *models.UpdateOrderRequest) (*models.Order, error) {
	existing, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.CustomerID != nil {
		if err := s.ensureCustomer(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
		updates["customer_id"] = *req.CustomerID
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalid("status", "unknown order status %q", *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.Total != nil {
		if req.Total.IsNegative() {
			return nil, invalid("total", "must not be negative")
		}
		updates["total"] = req.Total.Round(2)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	updated, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.events != nil && updated.Status != existing.Status {
		if err := s.events.PublishOrderStatusChanged(ctx, updated, existing.Status); err != nil {
			logrus.WithError(err).WithField("order_id", id).Warn("Failed to publish order status event")
		}
	}
	return updated, nil
}

// DeleteOrder removes the order with its items and returns the deleted record
func (s *orderService) DeleteOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filters *models.OrderFilters, page, limit int) ([]models.Order, *models.PaginationInfo, error) {
	if filters != nil && filters.Status != nil && !filters.Status.Valid() {
		return nil, nil, invalid("status", "unknown order status %q", *filters.Status)
	}
	page, limit = normalizePage(page, limit)
	return s.repo.List(ctx, filters, page, limit)
}

func (s *orderService) RecordPayment(ctx context.Context, orderID int64, req *models.CreatePaymentRequest, actor models.Actor) (*models.OrderPayment, error) {
	if !req.Amount.IsPositive() {
		return nil, invalid("amount", "must be greater than zero")
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payment := &models.OrderPayment{
		OrderID:   orderID,
		Amount:    req.Amount.Round(2),
		Method:    req.Method,
		Reference: req.Reference,
	}
	if req.PaidAt != nil {
		payment.PaidAt = *req.PaidAt
	} else {
		payment.PaidAt = time.Now()
	}
	if actor.Email != "" {
		email := actor.Email
		payment.RecordedByEmail = &email
	}
	if actor.Name != "" {
		name := actor.Name
		payment.RecordedByName = &name
	}

	if err := s.repo.AddPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if s.events != nil {
		if err := s.events.PublishPaymentRecorded(ctx, order, payment); err != nil {
			logrus.WithError(err).WithField("order_id", orderID).Warn("Failed to publish payment event")
		}
	}
	return payment, nil
}

// ListPayments returns the payments of an order with the amount paid and the balance left
func (s *orderService) ListPayments(ctx context.Context, orderID int64) (*models.PaymentListResponse, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.GetPayments(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	return &models.PaymentListResponse{
		Success: true,
		Data:    payments,
		Paid:    paid,
		Balance: order.Total.Sub(paid),
	}, nil
}

func (s *orderService) ensureCustomer(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("customerId", "is required")
	}
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("customerId", "customer %d does not exist", id)
		}
		return fmt.Errorf("failed to load customer: %w", err)
	}
	return nil
}
