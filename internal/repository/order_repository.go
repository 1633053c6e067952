package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vendor-backend/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters *models.OrderFilters, page, limit int) ([]models.Order, *models.PaginationInfo, error)

	// Payment management
	AddPayment(ctx context.Context, payment *models.OrderPayment) error
	GetPayments(ctx context.Context, orderID int64) ([]models.OrderPayment, error)

	// Catalog migration
	ListUnmigratedItems(ctx context.Context) ([]models.OrderItem, error)
	UpdateItemExternalProduct(ctx context.Context, itemID, externalProductID int64, productSKU *string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items in one transaction
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].CreatedAt = now
		order.Items[i].UpdatedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}

	orders := []models.Order{order}
	if err := r.attachCustomerNames(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the order together with its items and payments
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderPayment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *orderRepository) List(ctx context.Context, filters *models.OrderFilters, page, limit int) ([]models.Order, *models.PaginationInfo, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters != nil {
		if filters.CustomerID != nil {
			query = query.Where("customer_id = ?", *filters.CustomerID)
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, nil, err
	}

	if err := r.attachCustomerNames(ctx, orders); err != nil {
		return nil, nil, err
	}

	return orders, models.NewPaginationInfo(page, limit, total), nil
}

func (r *orderRepository) AddPayment(ctx context.Context, payment *models.OrderPayment) error {
	payment.CreatedAt = time.Now()
	if payment.PaidAt.IsZero() {
		payment.PaidAt = payment.CreatedAt
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *orderRepository) GetPayments(ctx context.Context, orderID int64) ([]models.OrderPayment, error) {
	var payments []models.OrderPayment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("paid_at ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

// ListUnmigratedItems returns order items that still reference a legacy product only
func (r *orderRepository) ListUnmigratedItems(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("product_id IS NOT NULL AND external_product_id IS NULL").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// UpdateItemExternalProduct points an unmigrated item at its catalog product.
// product_id is left in place.
func (r *orderRepository) UpdateItemExternalProduct(ctx context.Context, itemID, externalProductID int64, productSKU *string) error {
	result := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ? AND external_product_id IS NULL", itemID).
		Updates(map[string]interface{}{
			"external_product_id": externalProductID,
			"product_sku":         productSKU,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) attachCustomerNames(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.CustomerID)
	}

	var customers []models.Customer
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return err
	}

	names := make(map[int64]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	for i := range orders {
		orders[i].CustomerName = names[orders[i].CustomerID]
	}
	return nil
}
