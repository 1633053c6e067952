package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalProductDraft_BasePriceIsNumber(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  string
	}{
		{"trailing zero dropped", "19.90", `"basePrice":19.9`},
		{"zero", "0", `"basePrice":0`},
		{"integer", "250", `"basePrice":250`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(ExternalProductDraft{
				SKU:       "VENDOR-W-5",
				Name:      "W",
				Status:    ProductStatusActive,
				BasePrice: decimal.RequireFromString(tt.price),
				Currency:  "MXN",
			})
			require.NoError(t, err)
			assert.Contains(t, string(payload), tt.want)
			assert.Contains(t, string(payload), `"sku":"VENDOR-W-5"`)
			assert.Contains(t, string(payload), `"imageUrl":null`)

			var decoded ExternalProductDraft
			require.NoError(t, json.Unmarshal(payload, &decoded))
			assert.True(t, decimal.RequireFromString(tt.price).Equal(decoded.BasePrice))
		})
	}
}

func TestExternalProduct_ResponseKeepsQuotedDecimal(t *testing.T) {
	payload, err := json.Marshal(ExternalProduct{ID: 1, BasePrice: decimal.RequireFromString("19.90")})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"basePrice":"19.9"`)
}
