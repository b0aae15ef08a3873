package services

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"salarypulse/internal/dataset"
	"salarypulse/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("health check", func(t *testing.T) {
		hs := NewHealthService("1.2.3", "", nil, logger)
		status := hs.HealthCheck(context.Background())
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		assert.NotEmpty(t, status.Uptime)
	})

	t.Run("ready with dataset", func(t *testing.T) {
		loader := dataset.NewLoader(testutil.DefaultSalaryFixture().WriteCSV(t), logger)
		hs := NewHealthService("1.2.3", "", loader, logger)

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "ready", status.Status)
		assert.Equal(t, "ok", status.Services["dataset"].Status)
		assert.Equal(t, "24 years, 24 columns", status.Services["dataset"].Message)
		assert.True(t, hs.IsReady(context.Background()))
	})

	t.Run("not ready without dataset", func(t *testing.T) {
		loader := dataset.NewLoader("/nonexistent.csv", logger)
		hs := NewHealthService("1.2.3", "", loader, logger)

		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)
		assert.Equal(t, "unavailable", status.Services["dataset"].Status)
		assert.False(t, hs.IsReady(context.Background()))
	})

	t.Run("version", func(t *testing.T) {
		hs := NewHealthService("1.2.3", "2026-01-01", nil, logger)
		v := hs.Version()
		assert.Equal(t, "1.2.3", v.Version)
		assert.Equal(t, "2026-01-01", v.BuildTime)
		assert.Equal(t, runtime.Version(), v.GoVersion)
	})
}
