package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ExternalProduct is a catalog entry owned by the inventory/logistics service
type ExternalProduct struct {
	ID        int64           `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Status    ProductStatus   `json:"status"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Currency  string          `json:"currency"`
	ImageURL  *string         `json:"imageUrl,omitempty"`
}

// ExternalProductDraft is the payload used to create a catalog entry
type ExternalProductDraft struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Status    ProductStatus   `json:"status"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Currency  string          `json:"currency"`
	ImageURL  *string         `json:"imageUrl"`
}

// MarshalJSON sends basePrice as a JSON number; the catalog rejects quoted prices
func (d ExternalProductDraft) MarshalJSON() ([]byte, error) {
	type draft ExternalProductDraft
	return json.Marshal(struct {
		draft
		BasePrice json.Number `json:"basePrice"`
	}{
		draft:     draft(d),
		BasePrice: json.Number(d.BasePrice.String()),
	})
}

// ExternalProductRef is the subset of a catalog entry needed to rebuild the id mapping
type ExternalProductRef struct {
	ID  int64  `json:"id"`
	SKU string `json:"sku"`
}

// ExternalProductQuery holds the list filters forwarded to the inventory service
type ExternalProductQuery struct {
	Q      string `form:"q"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive archived"`
	Offset string `form:"offset"`
	Limit  string `form:"limit"`
}
