package clients

import "context"

const shipmentsPath = "/v1/shipments"

// ShipmentsClient proxies read-only shipment queries to the shipments service
type ShipmentsClient struct {
	*UpstreamClient
}

// NewShipmentsClient creates a shipments client for the service at baseURL
func NewShipmentsClient(baseURL, apiKey string) *ShipmentsClient {
	return &ShipmentsClient{UpstreamClient: NewUpstreamClient("shipments-service", baseURL, apiKey)}
}

// ListShipments forwards a list query and returns the raw answer
func (c *ShipmentsClient) ListShipments(ctx context.Context, rawQuery string) (*Response, error) {
	return c.relay(ctx, shipmentsPath, rawQuery)
}
