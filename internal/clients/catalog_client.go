package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vendor-backend/internal/models"
)

const (
	catalogPath          = "/v1/catalog"
	externalProductsPath = "/v1/external-products"

	listPageSize = 100
)

// CatalogClient talks to the catalog endpoints of the inventory/logistics services
type CatalogClient struct {
	*UpstreamClient
}

type productListResponse struct {
	Data []models.ExternalProduct `json:"data"`
}

type productResponse struct {
	Data *models.ExternalProduct `json:"data"`
}

type createdResponse struct {
	Data *struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// NewCatalogClient creates a catalog client for the service at baseURL
func NewCatalogClient(service, baseURL, apiKey string) *CatalogClient {
	return &CatalogClient{UpstreamClient: NewUpstreamClient(service, baseURL, apiKey)}
}

// Exists reports whether a catalog entry with exactly this SKU exists
func (c *CatalogClient) Exists(ctx context.Context, sku string) (bool, error) {
	var result productListResponse
	query := "q=" + url.QueryEscape(sku)
	if err := c.getJSON(ctx, catalogPath, query, &result); err != nil {
		return false, err
	}

	for _, p := range result.Data {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

// Create adds a catalog entry and returns the id assigned by the remote service
func (c *CatalogClient) Create(ctx context.Context, draft models.ExternalProductDraft) (int64, error) {
	resp, err := c.Do(ctx, http.MethodPost, catalogPath, "", draft)
	if err != nil {
		return 0, err
	}
	if err := c.Check(resp); err != nil {
		return 0, err
	}

	var result createdResponse
	if err := c.decode(resp, &result); err != nil {
		return 0, err
	}
	if result.Data == nil || result.Data.ID <= 0 {
		return 0, &UpstreamError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    "response is missing the created id",
			Body:       resp.Body,
		}
	}
	return result.Data.ID, nil
}

// ListByPrefix returns every external product whose SKU starts with prefix.
// The search is paged with offset/limit and the offset advances by the rows
// actually returned, so services that cap the page size are still read to the
// end. Paging stops at an empty page or at a page that brings nothing new, for
// services that ignore the paging parameters.
func (c *CatalogClient) ListByPrefix(ctx context.Context, prefix string) ([]models.ExternalProductRef, error) {
	seen := make(map[int64]bool)
	var refs []models.ExternalProductRef

	offset := 0
	for {
		query := fmt.Sprintf("q=%s&offset=%d&limit=%d", url.QueryEscape(prefix), offset, listPageSize)

		var page productListResponse
		if err := c.getJSON(ctx, externalProductsPath, query, &page); err != nil {
			return nil, err
		}

		added := 0
		for _, p := range page.Data {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			added++
			if strings.HasPrefix(p.SKU, prefix) {
				refs = append(refs, models.ExternalProductRef{ID: p.ID, SKU: p.SKU})
			}
		}

		if len(page.Data) == 0 || added == 0 {
			return refs, nil
		}
		offset += len(page.Data)
	}
}

// GetExternalProduct fetches one external product by id
func (c *CatalogClient) GetExternalProduct(ctx context.Context, id int64) (*models.ExternalProduct, error) {
	var result productResponse
	path := externalProductsPath + "/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, path, "", &result); err != nil {
		return nil, err
	}
	if result.Data == nil {
		return nil, fmt.Errorf("external product %d: %w", id, ErrNotFound)
	}
	return result.Data, nil
}

// ListExternalProducts forwards a list query and returns the raw answer.
// The body must be JSON; anything else is reported as an UpstreamError.
func (c *CatalogClient) ListExternalProducts(ctx context.Context, rawQuery string) (*Response, error) {
	return c.relay(ctx, externalProductsPath, rawQuery)
}
