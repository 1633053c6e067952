package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Response is a raw upstream answer kept for verbatim relaying
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// UpstreamClient issues API-key authenticated JSON requests to one sibling service
type UpstreamClient struct {
	service    string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewUpstreamClient creates a client for the service reachable at baseURL
func NewUpstreamClient(service, baseURL, apiKey string) *UpstreamClient {
	return &UpstreamClient{
		service: service,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Service returns the name used in errors and logs
func (c *UpstreamClient) Service() string {
	return c.service
}

// Do performs the request and returns the raw response.
// Only transport failures are returned as errors; status handling is left to the caller.
func (c *UpstreamClient) Do(ctx context.Context, method, path, rawQuery string, body interface{}) (*Response, error) {
	url := c.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Service: c.service, Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Service: c.service, Op: "read " + path, Err: err}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// Check converts a non-2xx response into ErrNotFound or an UpstreamError
func (c *UpstreamClient) Check(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", c.service, ErrNotFound)
	}
	return &UpstreamError{
		Service:    c.service,
		StatusCode: resp.StatusCode,
		Message:    upstreamMessage(resp.Body),
		Body:       resp.Body,
	}
}

// getJSON performs a GET and decodes a successful body into out
func (c *UpstreamClient) getJSON(ctx context.Context, path, rawQuery string, out interface{}) error {
	resp, err := c.Do(ctx, http.MethodGet, path, rawQuery, nil)
	if err != nil {
		return err
	}
	if err := c.Check(resp); err != nil {
		return err
	}
	return c.decode(resp, out)
}

func (c *UpstreamClient) decode(resp *Response, out interface{}) error {
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &UpstreamError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body: " + err.Error(),
			Body:       resp.Body,
		}
	}
	return nil
}

// relay performs a GET whose successful JSON body is handed back verbatim.
// A body that is not JSON is reported as an UpstreamError.
func (c *UpstreamClient) relay(ctx context.Context, path, rawQuery string) (*Response, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, rawQuery, nil)
	if err != nil {
		return nil, err
	}
	if err := c.Check(resp); err != nil {
		return nil, err
	}
	if !json.Valid(resp.Body) {
		return nil, &UpstreamError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			Body:       resp.Body,
		}
	}
	return resp, nil
}
