// Package loopback provides integration with the LoopBack ERP shipment API.
package loopback

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tournevent/erpbridge/pkg/erp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const backendName = "loopback"

// Config holds LoopBack ERP configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	UseMock bool // When true, uses mock API client
}

// Client is the LoopBack ERP shipment client.
// It implements the erp.ShipmentService interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new LoopBack ERP client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new LoopBack ERP client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the backend name.
func (c *Client) Name() string {
	return backendName
}

// ListShipments retrieves the shipment collection from the ERP.
func (c *Client) ListShipments(ctx context.Context, req *erp.ListShipmentsRequest) ([]byte, error) {
	ctx, span := c.startSpan(ctx, "loopback.list_shipments")
	defer span.End()

	c.logger.Info("Listing ERP shipments",
		zap.String("status", req.Status),
	)

	body, err := c.apiClient.ListShipments(ctx, req.Token, req.Status)
	if err != nil {
		c.logger.Error("ERP API error", zap.Error(err))
		return nil, translateError(err, "ERP threw error retrieving shipments")
	}

	return body, nil
}

// GetShipment retrieves a single shipment from the ERP.
func (c *Client) GetShipment(ctx context.Context, req *erp.GetShipmentRequest) ([]byte, error) {
	ctx, span := c.startSpan(ctx, "loopback.get_shipment")
	defer span.End()

	c.logger.Info("Getting ERP shipment",
		zap.String("shipment_id", req.ID),
	)

	body, err := c.apiClient.GetShipment(ctx, req.Token, req.ID)
	if err != nil {
		c.logger.Error("ERP API error", zap.Error(err))
		return nil, translateError(err, "ERP threw error retrieving shipment")
	}

	return body, nil
}

// UpdateShipment replaces a shipment in the ERP.
func (c *Client) UpdateShipment(ctx context.Context, req *erp.UpdateShipmentRequest) ([]byte, error) {
	ctx, span := c.startSpan(ctx, "loopback.update_shipment")
	defer span.End()

	c.logger.Info("Updating ERP shipment",
		zap.String("shipment_id", req.ID),
		zap.Int("payload_bytes", len(req.Payload)),
	)

	body, err := c.apiClient.UpdateShipment(ctx, req.Token, req.ID, req.Payload)
	if err != nil {
		c.logger.Error("ERP API error", zap.Error(err))
		return nil, translateError(err, "ERP threw error updating shipment")
	}

	return body, nil
}

// DeleteShipment removes a shipment from the ERP.
func (c *Client) DeleteShipment(ctx context.Context, req *erp.DeleteShipmentRequest) error {
	ctx, span := c.startSpan(ctx, "loopback.delete_shipment")
	defer span.End()

	c.logger.Info("Deleting ERP shipment",
		zap.String("shipment_id", req.ID),
	)

	if err := c.apiClient.DeleteShipment(ctx, req.Token, req.ID); err != nil {
		c.logger.Error("ERP API error", zap.Error(err))
		return translateError(err, "ERP threw error deleting shipment")
	}

	return nil
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return noop.NewTracerProvider().Tracer(backendName).Start(ctx, name)
	}
	return c.tracer.Start(ctx, name)
}

// ============================================================================
// Error translation: API errors -> erp errors
// ============================================================================

// translateError maps API client failures onto the erp error taxonomy.
// Status codes the ERP is known to send for the shipment resource get
// their own kinds; anything else, including failures to reach the ERP
// at all, is a transport error.
func translateError(err error, transportMessage string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return erp.NewError(backendName, erp.KindAuthentication, "ERP access denied").
				WithStatusCode(apiErr.StatusCode).
				WithDetail(apiErr.Message).
				WithCause(apiErr)
		case http.StatusNotFound:
			return erp.NewError(backendName, erp.KindNotFound, "Shipment does not exist").
				WithStatusCode(apiErr.StatusCode).
				WithDetail(apiErr.Message).
				WithCause(apiErr)
		case http.StatusUnprocessableEntity:
			return erp.NewError(backendName, erp.KindUnprocessable, "ERP could not process request").
				WithStatusCode(apiErr.StatusCode).
				WithDetail(apiErr.Message).
				WithCause(apiErr)
		}
		return erp.NewError(backendName, erp.KindTransport, transportMessage).
			WithStatusCode(apiErr.StatusCode).
			WithDetail(apiErr.Message).
			WithCause(apiErr)
	}

	return erp.NewError(backendName, erp.KindTransport, transportMessage).WithCause(err)
}
