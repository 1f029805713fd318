package erp

import (
	"time"

	"github.com/goccy/go-json"
)

// ShipmentStatus represents the status of a shipment in the ERP.
type ShipmentStatus string

const (
	StatusNew       ShipmentStatus = "new"
	StatusApproved  ShipmentStatus = "approved"
	StatusInTransit ShipmentStatus = "in_transit"
	StatusDelivered ShipmentStatus = "delivered"
)

// Shipment is the ERP's shipment record. Field names follow the ERP
// wire format exactly; the bridge never rewrites them.
type Shipment struct {
	ID                     int64          `json:"id"`
	Status                 ShipmentStatus `json:"status"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	DeliveredAt            *time.Time     `json:"deliveredAt,omitempty"`
	EstimatedTimeOfArrival *time.Time     `json:"estimatedTimeOfArrival,omitempty"`
	CurrentLocation        string         `json:"currentLocation,omitempty"`
	FromID                 int64          `json:"fromId"`
	ToID                   int64          `json:"toId"`
}

// ParseShipments decodes an ERP shipment collection body.
func ParseShipments(body []byte) ([]Shipment, error) {
	var shipments []Shipment
	if err := json.Unmarshal(body, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

// ParseShipment decodes a single ERP shipment body.
func ParseShipment(body []byte) (*Shipment, error) {
	var shipment Shipment
	if err := json.Unmarshal(body, &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

// ============================================================================
// Request Types
// ============================================================================

// ListShipmentsRequest is the request for listing shipments.
type ListShipmentsRequest struct {
	Token  string
	Status string // Empty string means no status filter
}

// GetShipmentRequest is the request for retrieving a shipment.
type GetShipmentRequest struct {
	Token string
	ID    string
}

// UpdateShipmentRequest is the request for updating a shipment.
// Payload is sent to the ERP verbatim.
type UpdateShipmentRequest struct {
	Token   string
	ID      string
	Payload []byte
}

// DeleteShipmentRequest is the request for deleting a shipment.
type DeleteShipmentRequest struct {
	Token string
	ID    string
}
