package loopback

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/tournevent/erpbridge/pkg/erp"
)

// MockAPIClient is a mock implementation of APIClient for testing and
// for running the bridge without a live ERP. It keeps an in-memory
// shipment store so updates and deletes behave like the real thing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnListShipments  func(ctx context.Context, token, status string) ([]byte, error)
	OnGetShipment    func(ctx context.Context, token, shipmentID string) ([]byte, error)
	OnUpdateShipment func(ctx context.Context, token, shipmentID string, payload []byte) ([]byte, error)
	OnDeleteShipment func(ctx context.Context, token, shipmentID string) error

	mu        sync.Mutex
	shipments []erp.Shipment
}

// NewMockAPIClient creates a new mock API client seeded with demo shipments.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		shipments: defaultShipments(),
	}
}

// ListShipments returns the mock shipment collection, filtered by status
// when one is given.
func (m *MockAPIClient) ListShipments(ctx context.Context, token, status string) ([]byte, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, simulatedError()
	}

	if m.OnListShipments != nil {
		return m.OnListShipments(ctx, token, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	shipments := m.shipments
	if status != "" {
		shipments = lo.Filter(m.shipments, func(s erp.Shipment, _ int) bool {
			return string(s.Status) == status
		})
	}

	return json.Marshal(shipments)
}

// GetShipment returns a single mock shipment.
func (m *MockAPIClient) GetShipment(ctx context.Context, token, shipmentID string) ([]byte, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, simulatedError()
	}

	if m.OnGetShipment != nil {
		return m.OnGetShipment(ctx, token, shipmentID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(shipmentID)
	if idx < 0 {
		return nil, notFoundError(shipmentID)
	}

	return json.Marshal(m.shipments[idx])
}

// UpdateShipment replaces a mock shipment with the decoded payload.
func (m *MockAPIClient) UpdateShipment(ctx context.Context, token, shipmentID string, payload []byte) ([]byte, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, simulatedError()
	}

	if m.OnUpdateShipment != nil {
		return m.OnUpdateShipment(ctx, token, shipmentID, payload)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(shipmentID)
	if idx < 0 {
		return nil, notFoundError(shipmentID)
	}

	var updated erp.Shipment
	if err := json.Unmarshal(payload, &updated); err != nil {
		return nil, &APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Name:       "ValidationError",
			Code:       "VALIDATION_ERROR",
			Message:    "The `Shipment` instance is not valid.",
		}
	}

	current := m.shipments[idx]
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	m.shipments[idx] = updated

	return json.Marshal(updated)
}

// DeleteShipment removes a mock shipment.
func (m *MockAPIClient) DeleteShipment(ctx context.Context, token, shipmentID string) error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return simulatedError()
	}

	if m.OnDeleteShipment != nil {
		return m.OnDeleteShipment(ctx, token, shipmentID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(shipmentID)
	if idx < 0 {
		return notFoundError(shipmentID)
	}

	m.shipments = append(m.shipments[:idx], m.shipments[idx+1:]...)
	return nil
}

// indexOf returns the store index of a shipment ID, or -1. Callers must
// hold the mutex.
func (m *MockAPIClient) indexOf(shipmentID string) int {
	for i, s := range m.shipments {
		if strconv.FormatInt(s.ID, 10) == shipmentID {
			return i
		}
	}
	return -1
}

func simulatedError() *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       "MOCK_ERROR",
		Message:    "Simulated API error",
	}
}

func notFoundError(shipmentID string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		Name:       "Error",
		Code:       "MODEL_NOT_FOUND",
		Message:    `Unknown "Shipment" id "` + shipmentID + `".`,
	}
}

func defaultShipments() []erp.Shipment {
	now := time.Now().UTC()
	delivered := now.Add(-72 * time.Hour)
	etaTransit := now.Add(48 * time.Hour)
	etaApproved := now.Add(96 * time.Hour)

	return []erp.Shipment{
		{
			ID:        4001,
			Status:    erp.StatusNew,
			CreatedAt: now.Add(-2 * time.Hour),
			UpdatedAt: now.Add(-2 * time.Hour),
			FromID:    1,
			ToID:      104,
		},
		{
			ID:                     4002,
			Status:                 erp.StatusApproved,
			CreatedAt:              now.Add(-26 * time.Hour),
			UpdatedAt:              now.Add(-20 * time.Hour),
			EstimatedTimeOfArrival: &etaApproved,
			FromID:                 1,
			ToID:                   102,
		},
		{
			ID:                     4003,
			Status:                 erp.StatusInTransit,
			CreatedAt:              now.Add(-96 * time.Hour),
			UpdatedAt:              now.Add(-12 * time.Hour),
			EstimatedTimeOfArrival: &etaTransit,
			CurrentLocation:        "Memphis, TN",
			FromID:                 2,
			ToID:                   104,
		},
		{
			ID:              4004,
			Status:          erp.StatusDelivered,
			CreatedAt:       now.Add(-168 * time.Hour),
			UpdatedAt:       delivered,
			DeliveredAt:     &delivered,
			CurrentLocation: "Austin, TX",
			FromID:          2,
			ToID:            103,
		},
	}
}

var _ APIClient = (*MockAPIClient)(nil)
