package loopback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// statusFilter is the LoopBack where-clause prefix for filtering the
// shipment collection by status. The brackets are sent literally; only
// the value is escaped.
const statusFilter = "filter[where][status]="

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListShipments fetches the shipment collection from the ERP.
// GET /Shipments, optionally with a status filter in the query string.
// Only 401 is mapped to an error; every other response body is returned
// to the caller untouched.
func (c *HTTPAPIClient) ListShipments(ctx context.Context, token, status string) ([]byte, error) {
	path := "/Shipments"
	if status != "" {
		path += "?" + statusFilter + url.QueryEscape(status)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.parseError(resp)
	}

	return readBody(resp)
}

// GetShipment fetches a single shipment from the ERP.
// GET /Shipments/{id}
func (c *HTTPAPIClient) GetShipment(ctx context.Context, token, shipmentID string) ([]byte, error) {
	path := "/Shipments/" + shipmentID

	resp, err := c.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil, c.parseError(resp)
	}

	return readBody(resp)
}

// UpdateShipment replaces a shipment via the ERP.
// PUT /Shipments/{id} with the payload forwarded verbatim.
func (c *HTTPAPIClient) UpdateShipment(ctx context.Context, token, shipmentID string, payload []byte) ([]byte, error) {
	path := "/Shipments/" + shipmentID

	resp, err := c.doRequest(ctx, http.MethodPut, path, token, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return nil, c.parseError(resp)
	}

	return readBody(resp)
}

// DeleteShipment removes a shipment via the ERP.
// DELETE /Shipments/{id} - the ERP may answer 200 or 204 on success.
func (c *HTTPAPIClient) DeleteShipment(ctx context.Context, token, shipmentID string) error {
	path := "/Shipments/" + shipmentID

	resp, err := c.doRequest(ctx, http.MethodDelete, path, token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return c.parseError(resp)
	}

	// Drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)
	return nil
}

// doRequest performs an HTTP request with proper headers and authentication.
// The session token goes into the Authorization header as-is; the ERP does
// not use a Bearer prefix.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", token)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "delivro-erpbridge/1.0")

	return c.httpClient.Do(req)
}

// parseError extracts error information from an HTTP response.
// LoopBack wraps errors as {"error": {"statusCode", "name", "code", "message"}}.
func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr := envelope.Error
		if apiErr.StatusCode == 0 {
			apiErr.StatusCode = resp.StatusCode
		}
		return &apiErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
