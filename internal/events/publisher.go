package events

import (
	"context"
	"strconv"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vendor-backend/internal/models"
)

const publishTimeout = 10 * time.Second

// Publisher announces order and payment changes on NATS
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
	tenantID  string
	currency  string
}

// NewPublisher connects to NATS and makes sure the order and payment streams exist
func NewPublisher(logger *logrus.Logger, natsURL, tenantID, currency string) (*Publisher, error) {
	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "vendor-backend"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := publisher.EnsureStream(ctx, events.StreamOrders, []string{"order.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure ORDER_EVENTS stream")
	}
	if err := publisher.EnsureStream(ctx, events.StreamPayments, []string{"payment.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure PAYMENT_EVENTS stream")
	}

	return &Publisher{
		publisher: publisher,
		logger:    logger.WithField("component", "events.publisher"),
		tenantID:  tenantID,
		currency:  currency,
	}, nil
}

// PublishOrderCreated publishes an order.created event
func (p *Publisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	p.publishOrder(buildOrderEvent(events.OrderCreated, order, p.tenantID, p.currency))
	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error {
	event := buildOrderEvent("order.status_changed", order, p.tenantID, p.currency)
	event.Metadata = map[string]interface{}{
		"previousStatus": string(previous),
		"newStatus":      string(order.Status),
	}
	p.publishOrder(event)
	return nil
}

// PublishPaymentRecorded publishes a payment.captured event
func (p *Publisher) PublishPaymentRecorded(ctx context.Context, order *models.Order, payment *models.OrderPayment) error {
	event := buildPaymentEvent(order, payment, p.tenantID, p.currency)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.publisher.PublishPayment(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"orderID":   event.OrderID,
			}).WithError(err).Error("Failed to publish payment event")
		}
	}()
	return nil
}

// publishOrder sends the event in the background so requests never wait on NATS
func (p *Publisher) publishOrder(event *events.OrderEvent) {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.publisher.PublishOrder(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"orderID":   event.OrderID,
			}).WithError(err).Error("Failed to publish order event")
			return
		}
		p.logger.WithFields(logrus.Fields{
			"eventType": event.EventType,
			"orderID":   event.OrderID,
		}).Debug("Order event published")
	}()
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.publisher.IsConnected()
}

// Close closes the publisher connection
func (p *Publisher) Close() {
	p.publisher.Close()
}

func buildOrderEvent(eventType string, order *models.Order, tenantID, currency string) *events.OrderEvent {
	event := events.NewOrderEvent(eventType, tenantID)
	event.SourceID = uuid.New().String()
	event.OrderID = strconv.FormatInt(order.ID, 10)
	event.OrderNumber = event.OrderID
	event.OrderDate = order.CreatedAt.Format(time.RFC3339)
	event.Status = string(order.Status)
	event.TotalAmount = order.Total.InexactFloat64()
	event.Currency = currency
	event.CustomerID = strconv.FormatInt(order.CustomerID, 10)
	event.CustomerName = order.CustomerName

	event.Items = make([]events.OrderItem, len(order.Items))
	for i, item := range order.Items {
		line := events.OrderItem{
			Name:       item.ProductName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.InexactFloat64(),
			TotalPrice: item.LineTotal.InexactFloat64(),
		}
		if item.ExternalProductID != nil {
			line.ProductID = strconv.FormatInt(*item.ExternalProductID, 10)
		}
		if item.ProductSKU != nil {
			line.SKU = *item.ProductSKU
		}
		event.Items[i] = line
	}
	event.ItemCount = len(order.Items)
	return event
}

func buildPaymentEvent(order *models.Order, payment *models.OrderPayment, tenantID, currency string) *events.PaymentEvent {
	event := events.NewPaymentEvent(events.PaymentCaptured, tenantID)
	event.SourceID = uuid.New().String()
	event.PaymentID = strconv.FormatInt(payment.ID, 10)
	event.OrderID = strconv.FormatInt(order.ID, 10)
	event.OrderNumber = event.OrderID
	event.CustomerID = strconv.FormatInt(order.CustomerID, 10)
	event.CustomerName = order.CustomerName
	event.Amount = payment.Amount.InexactFloat64()
	event.Currency = currency
	event.Method = string(payment.Method)
	event.Status = "captured"
	return event
}
