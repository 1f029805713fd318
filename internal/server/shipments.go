package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/tournevent/erpbridge/pkg/erp"
	"go.uber.org/zap"
)

type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// errorResponse is the envelope returned for all error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	token := r.Header.Get("Authorization")
	if token == "" {
		s.unauthorized(w, "list_shipments", start)
		return
	}

	status := r.URL.Query().Get("status")

	s.logger.Info("Listing shipments",
		zap.String("request_id", requestID(ctx)),
		zap.String("status", status),
	)

	body, err := s.shipments.ListShipments(ctx, &erp.ListShipmentsRequest{
		Token:  token,
		Status: status,
	})
	if err != nil {
		s.respondError(w, r, "list_shipments", start, err)
		return
	}

	s.writeRaw(w, "list_shipments", start, http.StatusOK, body)
}

func (s *Server) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	token := r.Header.Get("Authorization")
	if token == "" {
		s.unauthorized(w, "get_shipment", start)
		return
	}

	id := r.PathValue("id")

	s.logger.Info("Getting shipment",
		zap.String("request_id", requestID(ctx)),
		zap.String("shipment_id", id),
	)

	body, err := s.shipments.GetShipment(ctx, &erp.GetShipmentRequest{
		Token: token,
		ID:    id,
	})
	if err != nil {
		s.respondError(w, r, "get_shipment", start, err)
		return
	}

	s.writeRaw(w, "get_shipment", start, http.StatusOK, body)
}

func (s *Server) handleUpdateShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	token := r.Header.Get("Authorization")
	if token == "" {
		s.unauthorized(w, "update_shipment", start)
		return
	}

	id := r.PathValue("id")

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeJSON(w, "update_shipment", start, http.StatusBadRequest, errorResponse{
			Error: errorBody{Message: "Failed to read request body"},
		})
		return
	}
	if len(payload) == 0 {
		s.writeJSON(w, "update_shipment", start, http.StatusUnprocessableEntity, errorResponse{
			Error: errorBody{Message: "Missing request body"},
		})
		return
	}

	s.logger.Info("Updating shipment",
		zap.String("request_id", requestID(ctx)),
		zap.String("shipment_id", id),
		zap.Int("payload_bytes", len(payload)),
	)

	body, err := s.shipments.UpdateShipment(ctx, &erp.UpdateShipmentRequest{
		Token:   token,
		ID:      id,
		Payload: payload,
	})
	if err != nil {
		s.respondError(w, r, "update_shipment", start, err)
		return
	}

	s.writeRaw(w, "update_shipment", start, http.StatusOK, body)
}

func (s *Server) handleDeleteShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	token := r.Header.Get("Authorization")
	if token == "" {
		s.unauthorized(w, "delete_shipment", start)
		return
	}

	id := r.PathValue("id")

	s.logger.Info("Deleting shipment",
		zap.String("request_id", requestID(ctx)),
		zap.String("shipment_id", id),
	)

	err := s.shipments.DeleteShipment(ctx, &erp.DeleteShipmentRequest{
		Token: token,
		ID:    id,
	})
	if err != nil {
		s.respondError(w, r, "delete_shipment", start, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	s.metrics.RecordRequest("delete_shipment", strconv.Itoa(http.StatusNoContent), time.Since(start).Seconds())
}

// respondError translates an ERP error into an HTTP error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, operation string, start time.Time, err error) {
	message := err.Error()
	details := ""
	backend := s.shipments.Name()

	var erpErr *erp.Error
	if errors.As(err, &erpErr) {
		message = erpErr.Message
		details = erpErr.Detail
		backend = erpErr.Backend
	}

	kind := erp.KindOf(err)

	s.logger.Error("Request failed",
		zap.String("request_id", requestID(r.Context())),
		zap.String("operation", operation),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	s.metrics.RecordUpstreamError(backend, string(kind))
	s.writeJSON(w, operation, start, statusForKind(kind), errorResponse{
		Error: errorBody{Message: message, Details: details},
	})
}

func statusForKind(kind erp.Kind) int {
	switch kind {
	case erp.KindAuthentication:
		return http.StatusUnauthorized
	case erp.KindNotFound:
		return http.StatusNotFound
	case erp.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case erp.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) unauthorized(w http.ResponseWriter, operation string, start time.Time) {
	s.writeJSON(w, operation, start, http.StatusUnauthorized, errorResponse{
		Error: errorBody{Message: "Missing authorization token"},
	})
}

// writeRaw forwards an upstream response body without re-encoding it.
func (s *Server) writeRaw(w http.ResponseWriter, operation string, start time.Time, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
	s.metrics.RecordRequest(operation, strconv.Itoa(status), time.Since(start).Seconds())
}

func (s *Server) writeJSON(w http.ResponseWriter, operation string, start time.Time, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
	s.metrics.RecordRequest(operation, strconv.Itoa(status), time.Since(start).Seconds())
}
