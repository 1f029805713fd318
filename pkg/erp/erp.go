// Package erp provides an abstraction layer for ERP shipment backends.
package erp

import (
	"context"
)

// ShipmentService defines the interface that all ERP shipment backends
// must implement. Response bodies are returned exactly as the ERP sent
// them; callers that need structured data can use ParseShipment or
// ParseShipments.
type ShipmentService interface {
	// Name returns the backend identifier (e.g., "loopback", "mock").
	Name() string

	// ListShipments retrieves the shipments visible to the token,
	// optionally filtered by status.
	ListShipments(ctx context.Context, req *ListShipmentsRequest) ([]byte, error)

	// GetShipment retrieves a single shipment by ID.
	GetShipment(ctx context.Context, req *GetShipmentRequest) ([]byte, error)

	// UpdateShipment replaces a shipment with the given payload.
	UpdateShipment(ctx context.Context, req *UpdateShipmentRequest) ([]byte, error)

	// DeleteShipment removes a shipment by ID.
	DeleteShipment(ctx context.Context, req *DeleteShipmentRequest) error
}
