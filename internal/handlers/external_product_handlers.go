package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/clients"
	"vendor-backend/internal/models"
)

// ExternalProductSource is the inventory service as seen by the proxy
type ExternalProductSource interface {
	ListExternalProducts(ctx context.Context, rawQuery string) (*clients.Response, error)
	GetExternalProduct(ctx context.Context, id int64) (*models.ExternalProduct, error)
}

type ExternalProductHandler struct {
	source ExternalProductSource
}

func NewExternalProductHandler(source ExternalProductSource) *ExternalProductHandler {
	return &ExternalProductHandler{source: source}
}

// ListExternalProducts forwards a product search to the inventory service
// @Summary List external products
// @Description Proxies q, status, offset and limit to the inventory service and relays its answer
// @Tags external-products
// @Produce json
// @Param q query string false "Search text"
// @Param status query string false "Product status" Enums(active, inactive, archived)
// @Param offset query string false "Offset"
// @Param limit query string false "Limit"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/external-products [get]
func (h *ExternalProductHandler) ListExternalProducts(c *gin.Context) {
	var query models.ExternalProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_QUERY", "status must be one of active, inactive, archived")
		return
	}

	resp, err := h.source.ListExternalProducts(c.Request.Context(), encodeProductQuery(query))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	relay(c, resp)
}

// GetExternalProduct fetches one product from the inventory service
// @Summary Get external product by ID
// @Tags external-products
// @Produce json
// @Param id path int true "External product ID"
// @Success 200 {object} object{data=models.ExternalProduct}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/external-products/{id} [get]
func (h *ExternalProductHandler) GetExternalProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.source.GetExternalProduct(c.Request.Context(), id)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

// encodeProductQuery keeps the recognized filters in a fixed order, dropping empty ones
func encodeProductQuery(q models.ExternalProductQuery) string {
	params := []struct{ key, value string }{
		{"q", q.Q},
		{"status", q.Status},
		{"offset", q.Offset},
		{"limit", q.Limit},
	}

	var parts []string
	for _, p := range params {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}
