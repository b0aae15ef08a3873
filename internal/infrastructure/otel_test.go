package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/internal/config"
)

func TestInitializeOTelNone(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{
		TraceExporter:  "none",
		MetricExporter: "none",
	}, "test", GetLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelUnsupported(t *testing.T) {
	_, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "jaeger"}, "test", GetLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(config.TelemetryConfig{MetricExporter: "statsd"}, "test", GetLogger())
	assert.Error(t, err)
}

func TestReportMetricsPrometheus(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
	}, "test", GetLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := CreateReportMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordReportBuild(ctx, 250*time.Millisecond, nil)
	metrics.RecordReportBuild(ctx, time.Second, errors.New("boom"))
	metrics.RecordChart(ctx, "multi")
	metrics.RecordDatasetLoad(ctx, nil)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, name := range []string{"reports_built", "report_build_duration", "charts_rendered", "dataset_loads"} {
		assert.Contains(t, body, name)
	}
	assert.Contains(t, body, `kind="multi"`)
}

func TestReportMetricsNilSafe(t *testing.T) {
	var m *ReportMetrics
	assert.NotPanics(t, func() {
		m.RecordReportBuild(context.Background(), time.Second, nil)
		m.RecordChart(context.Background(), "single")
		m.RecordDatasetLoad(context.Background(), nil)
	})
}

func TestRecordErrorWithoutSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(context.Background(), errors.New("boom"))
		RecordError(context.Background(), nil)
	})
}
