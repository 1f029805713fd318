package loopback

import (
	"context"
	"fmt"
)

// APIClient defines the interface for ERP shipment API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// ListShipments fetches the shipment collection, optionally filtered by status
	ListShipments(ctx context.Context, token, status string) ([]byte, error)

	// GetShipment fetches a single shipment by ID
	GetShipment(ctx context.Context, token, shipmentID string) ([]byte, error)

	// UpdateShipment replaces a shipment with the given payload
	UpdateShipment(ctx context.Context, token, shipmentID string, payload []byte) ([]byte, error)

	// DeleteShipment removes a shipment
	DeleteShipment(ctx context.Context, token, shipmentID string) error
}

// ============================================================================
// API Types (match the LoopBack REST API structure)
// ============================================================================

// errorEnvelope is the wrapper LoopBack puts around error responses.
type errorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError represents an error response from the ERP REST API.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("HTTP_%d: %s", e.StatusCode, e.Message)
}
