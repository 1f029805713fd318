package loopback_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/erpbridge/pkg/erp"
	"github.com/tournevent/erpbridge/pkg/erp/loopback"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newWireClient(baseURL string) *loopback.Client {
	logger := otelzap.New(zap.NewNop())
	return loopback.New(loopback.Config{BaseURL: baseURL}, logger, nil)
}

const (
	listBody = `[{"id":1,"status":"delivered","createdAt":"2026-01-03T11:00:00Z","updatedAt":"2026-01-08T09:15:00Z","fromId":2,"toId":7}]`
	itemBody = `{"id":1,"status":"in_transit","createdAt":"2026-01-10T08:30:00Z","updatedAt":"2026-01-12T16:45:00Z","fromId":2,"toId":5}`

	unauthorizedBody = `{"error":{"statusCode":401,"name":"Error","message":"Authorization Required","code":"AUTHORIZATION_REQUIRED"}}`
	notFoundBody     = `{"error":{"statusCode":404,"name":"Error","message":"Unknown \"Shipment\" id \"42\".","code":"MODEL_NOT_FOUND"}}`
)

func TestHTTPAPIClient_ListShipments_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Shipments", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		assert.Equal(t, "sess-token", r.Header.Get("Authorization"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	body, err := api.ListShipments(context.Background(), "sess-token", "")
	require.NoError(t, err)
	assert.Equal(t, listBody, string(body))
}

func TestHTTPAPIClient_ListShipments_StatusFilterQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The where-clause brackets must reach the ERP literally
		assert.Equal(t, "filter[where][status]=delivered", r.URL.RawQuery)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listBody))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := api.ListShipments(context.Background(), "sess-token", "delivered")
	require.NoError(t, err)
}

func TestHTTPAPIClient_ListShipments_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(unauthorizedBody))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := api.ListShipments(context.Background(), "expired", "")
	require.Error(t, err)

	var apiErr *loopback.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "AUTHORIZATION_REQUIRED", apiErr.Code)
	assert.Equal(t, "Authorization Required", apiErr.Message)
}

func TestHTTPAPIClient_ListShipments_NotFoundPassesThrough(t *testing.T) {
	// The collection endpoint does not map 404; whatever the ERP sent
	// is handed back to the caller.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundBody))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	body, err := api.ListShipments(context.Background(), "sess-token", "")
	require.NoError(t, err)
	assert.Equal(t, notFoundBody, string(body))
}

func TestHTTPAPIClient_GetShipment_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Shipments/1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(itemBody))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	body, err := api.GetShipment(context.Background(), "sess-token", "1")
	require.NoError(t, err)
	assert.Equal(t, itemBody, string(body))
}

func TestHTTPAPIClient_GetShipment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundBody))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := api.GetShipment(context.Background(), "sess-token", "42")
	require.Error(t, err)

	var apiErr *loopback.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "MODEL_NOT_FOUND", apiErr.Code)
}

func TestHTTPAPIClient_GetShipment_UnmappedStatusPassesThrough(t *testing.T) {
	// Only 401 and 404 are mapped; a 500 body is returned untouched.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"statusCode":500,"message":"boom"}}`))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	body, err := api.GetShipment(context.Background(), "sess-token", "1")
	require.NoError(t, err)
	assert.Contains(t, string(body), "boom")
}

func TestHTTPAPIClient_UpdateShipment_PayloadVerbatim(t *testing.T) {
	payload := []byte(`{"status":"delivered","deliveredAt":"2026-03-01T12:00:00Z"}`)
	echo := `{"id":1,"status":"delivered"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/Shipments/1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		received, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, received)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(echo))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	body, err := api.UpdateShipment(context.Background(), "sess-token", "1", payload)
	require.NoError(t, err)
	assert.Equal(t, echo, string(body))
}

func TestHTTPAPIClient_DeleteShipment_Success(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/Shipments/1", r.URL.Path)
			w.WriteHeader(status)
		}))

		api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

		err := api.DeleteShipment(context.Background(), "sess-token", "1")
		assert.NoError(t, err)
		srv.Close()
	}
}

func TestHTTPAPIClient_DeleteShipment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundBody))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	err := api.DeleteShipment(context.Background(), "sess-token", "42")
	require.Error(t, err)

	var apiErr *loopback.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestHTTPAPIClient_ParseError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("access denied"))
	}))
	defer srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := api.ListShipments(context.Background(), "expired", "")
	require.Error(t, err)

	var apiErr *loopback.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "access denied", apiErr.Message)
}

func TestHTTPAPIClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	api := loopback.NewHTTPAPIClient(loopback.HTTPAPIClientConfig{BaseURL: baseURL})

	_, err := api.ListShipments(context.Background(), "sess-token", "")
	require.Error(t, err)

	// Reaching the ERP failed entirely, so no API error was parsed
	var apiErr *loopback.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_WireAuthenticationError(t *testing.T) {
	// End to end through the real HTTP client: a 401 envelope from the
	// ERP surfaces as an authentication error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(unauthorizedBody))
	}))
	defer srv.Close()

	client := newWireClient(srv.URL)

	_, err := client.ListShipments(context.Background(), &erp.ListShipmentsRequest{Token: "expired"})
	require.Error(t, err)
	assert.True(t, erp.IsAuthentication(err))
}

func TestClient_WireTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client := newWireClient(baseURL)

	_, err := client.GetShipment(context.Background(), &erp.GetShipmentRequest{Token: "sess-token", ID: "1"})
	require.Error(t, err)
	assert.True(t, erp.IsTransport(err))
}
