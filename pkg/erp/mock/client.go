// Package mock provides a mock ERP shipment service for testing.
package mock

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/tournevent/erpbridge/pkg/erp"
)

// Client is a mock ERP shipment service for testing.
// When Err is set, every operation returns it; otherwise operations are
// served from a small canned shipment set.
type Client struct {
	name      string
	shipments []erp.Shipment

	Err error
}

// New creates a new mock ERP service.
func New(name string) *Client {
	now := time.Now().UTC()
	delivered := now.Add(-24 * time.Hour)
	eta := now.Add(36 * time.Hour)

	return &Client{
		name: name,
		shipments: []erp.Shipment{
			{
				ID:                     1,
				Status:                 erp.StatusInTransit,
				CreatedAt:              now.Add(-48 * time.Hour),
				UpdatedAt:              now.Add(-6 * time.Hour),
				EstimatedTimeOfArrival: &eta,
				CurrentLocation:        "Columbus, OH",
				FromID:                 1,
				ToID:                   101,
			},
			{
				ID:          2,
				Status:      erp.StatusDelivered,
				CreatedAt:   now.Add(-96 * time.Hour),
				UpdatedAt:   delivered,
				DeliveredAt: &delivered,
				FromID:      1,
				ToID:        102,
			},
		},
	}
}

// Name returns the backend name.
func (c *Client) Name() string {
	return c.name
}

// ListShipments returns the canned shipments, filtered by status when
// one is given.
func (c *Client) ListShipments(ctx context.Context, req *erp.ListShipmentsRequest) ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	shipments := c.shipments
	if req.Status != "" {
		shipments = lo.Filter(c.shipments, func(s erp.Shipment, _ int) bool {
			return string(s.Status) == req.Status
		})
	}

	return json.Marshal(shipments)
}

// GetShipment returns a canned shipment by ID.
func (c *Client) GetShipment(ctx context.Context, req *erp.GetShipmentRequest) ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	shipment, found := c.find(req.ID)
	if !found {
		return nil, erp.NewError(c.name, erp.KindNotFound, "Shipment does not exist")
	}

	return json.Marshal(shipment)
}

// UpdateShipment echoes the decoded payload with the shipment's ID.
func (c *Client) UpdateShipment(ctx context.Context, req *erp.UpdateShipmentRequest) ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	current, found := c.find(req.ID)
	if !found {
		return nil, erp.NewError(c.name, erp.KindNotFound, "Shipment does not exist")
	}

	var updated erp.Shipment
	if err := json.Unmarshal(req.Payload, &updated); err != nil {
		return nil, erp.NewError(c.name, erp.KindUnprocessable, "ERP could not process request").WithCause(err)
	}

	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	return json.Marshal(updated)
}

// DeleteShipment succeeds for any canned shipment ID.
func (c *Client) DeleteShipment(ctx context.Context, req *erp.DeleteShipmentRequest) error {
	if c.Err != nil {
		return c.Err
	}

	if _, found := c.find(req.ID); !found {
		return erp.NewError(c.name, erp.KindNotFound, "Shipment does not exist")
	}

	return nil
}

func (c *Client) find(id string) (erp.Shipment, bool) {
	return lo.Find(c.shipments, func(s erp.Shipment) bool {
		return strconv.FormatInt(s.ID, 10) == id
	})
}

var _ erp.ShipmentService = (*Client)(nil)
