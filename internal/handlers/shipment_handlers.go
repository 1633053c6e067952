package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"vendor-backend/internal/clients"
)

// ShipmentSource is the shipments service as seen by the proxy
type ShipmentSource interface {
	ListShipments(ctx context.Context, rawQuery string) (*clients.Response, error)
}

type ShipmentHandler struct {
	source ShipmentSource
}

func NewShipmentHandler(source ShipmentSource) *ShipmentHandler {
	return &ShipmentHandler{source: source}
}

// ListShipments forwards the query string unchanged to the shipments service
// @Summary List shipments
// @Tags shipments
// @Produce json
// @Success 200 {object} object
// @Failure 502 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /v1/shipments [get]
func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	resp, err := h.source.ListShipments(c.Request.Context(), c.Request.URL.RawQuery)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	relay(c, resp)
}
