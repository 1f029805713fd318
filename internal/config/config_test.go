package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/erpbridge/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv registers the restore, Unsetenv clears for this test
	for _, key := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "ERP_BASE_URL", "ERP_TIMEOUT", "ERP_USE_MOCK", "SERVICE_NAME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://localhost:3000/api/v1/", cfg.ERPBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ERPTimeout)
	assert.False(t, cfg.ERPUseMock)
	assert.Equal(t, "delivro-erp-bridge", cfg.ServiceName)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ERP_BASE_URL", "https://erp.internal.example.com/api/v1/")
	t.Setenv("ERP_TIMEOUT", "5s")
	t.Setenv("ERP_USE_MOCK", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://erp.internal.example.com/api/v1/", cfg.ERPBaseURL)
	assert.Equal(t, 5*time.Second, cfg.ERPTimeout)
	assert.True(t, cfg.ERPUseMock)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestAttributes(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	attrs := cfg.Attributes()
	assert.Len(t, attrs, 4)

	keys := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		keys = append(keys, string(attr.Key))
	}
	assert.Contains(t, keys, "service.name")
	assert.Contains(t, keys, "erp.use_mock")
}
