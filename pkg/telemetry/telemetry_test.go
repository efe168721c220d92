package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contentflow/config"
)

func TestInitNoEndpointIsNoop(t *testing.T) {
	cfg := &config.Config{}

	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

// The service-name resource must merge cleanly with the SDK default
// resource; a semconv schema mismatch fails Init before the exporter
// ever sends a span.
func TestInitWithEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.Telemetry.OTLPEndpoint = "localhost:4318"
	cfg.Telemetry.ServiceName = "contentflow-test"

	shutdown, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// No spans were recorded, so shutdown has nothing to export and must
	// not block on the (absent) collector.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, shutdown(ctx))
}
