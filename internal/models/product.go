package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus represents the catalog status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a legacy vendor-owned product row.
// It is kept for the catalog migration and seeding only; the live API reads
// products from the inventory service.
type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Status      ProductStatus   `json:"status" gorm:"not null;default:'active'"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	AvailableAt *time.Time      `json:"availableAt,omitempty"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
