package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tournevent/erpbridge/internal/config"
	"github.com/tournevent/erpbridge/internal/telemetry"
	"github.com/tournevent/erpbridge/pkg/erp"
	"github.com/tournevent/erpbridge/pkg/erp/loopback"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level, format string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level, format)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

func initMetrics() *telemetry.Metrics {
	return telemetry.NewMetrics(prometheus.DefaultRegisterer)
}

// initShipments wires up the LoopBack ERP backend. The tracer comes from
// the global provider, so initTracer must run first.
func initShipments(cfg *config.Config, logger *otelzap.Logger) erp.ShipmentService {
	tracer := otel.Tracer(cfg.ServiceName)

	return loopback.New(loopback.Config{
		BaseURL: cfg.ERPBaseURL,
		Timeout: cfg.ERPTimeout,
		UseMock: cfg.ERPUseMock,
	}, logger, tracer)
}
