package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insiderdash/internal/config"
	"insiderdash/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelInitializationExposesPrometheus(t *testing.T) {
	providers, err := InitializeOTel(OTelConfigFromTelemetry(config.Default().Telemetry), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Tracer)

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordLoad(ctx, "data.csv", 25*time.Millisecond, domain.NormalizeReport{RowsOut: 2, DuplicatesDropped: 1}, nil)
	metrics.RecordExport(ctx, "xlsx", "all", 2048, nil)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "dataset_loads_total")
	assert.Contains(t, body, "dataset_duplicates_dropped_total")
	assert.Contains(t, body, "export_requests_total")
	assert.Contains(t, body, "system_goroutines")
}

func TestOTelInitializationTwice(t *testing.T) {
	for i := 0; i < 2; i++ {
		providers, err := InitializeOTel(nil, discardLogger())
		require.NoError(t, err)
		require.NoError(t, providers.Shutdown(context.Background()))
	}
}

func TestOTelDisabledUsesNoop(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "test", TraceExporter: "none"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.Meter)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestUnsupportedTraceExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{ServiceName: "test", EnableTracing: true, TraceExporter: "jaeger"}, discardLogger())
	assert.Error(t, err)
}

func TestPipelineMetricsNilSafe(t *testing.T) {
	var m *PipelineMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordLoad(ctx, "x", time.Second, domain.NormalizeReport{}, errors.New("boom"))
		m.RecordCacheLookup(ctx, true)
		m.RecordFilter(ctx, 3, 1)
		m.RecordExport(ctx, "csv", "filtered", 10, nil)
		m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Millisecond)
	})

	noop := NoopPipelineMetrics()
	assert.NotPanics(t, func() {
		noop.RecordLoad(ctx, "x", time.Second, domain.NormalizeReport{RowsOut: 1}, nil)
	})
}

func TestTraceIDFromContextWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
