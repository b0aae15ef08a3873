package http

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/internal/services"
	"salarypulse/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t, testutil.DefaultSalaryFixture().WriteCSV(t))

	tests := []struct {
		name          string
		target        string
		checkResponse func(t *testing.T, body []byte)
	}{
		{
			name:   "health check endpoint",
			target: "/api/health",
			checkResponse: func(t *testing.T, body []byte) {
				var status services.HealthStatus
				require.NoError(t, json.Unmarshal(body, &status))
				assert.Equal(t, "ok", status.Status)
				assert.Equal(t, "test", status.Version)
			},
		},
		{
			name:   "readiness endpoint",
			target: "/api/health/ready",
			checkResponse: func(t *testing.T, body []byte) {
				var status services.HealthStatus
				require.NoError(t, json.Unmarshal(body, &status))
				assert.Equal(t, "ready", status.Status)
				assert.Equal(t, "24 years, 24 columns", status.Services["dataset"].Message)
			},
		},
		{
			name:   "version endpoint",
			target: "/api/version",
			checkResponse: func(t *testing.T, body []byte) {
				var info services.VersionInfo
				require.NoError(t, json.Unmarshal(body, &info))
				assert.Equal(t, "test", info.Version)
				assert.NotEmpty(t, info.GoVersion)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, http.MethodGet, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			tt.checkResponse(t, rec.Body.Bytes())
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	router := newTestRouter(t, filepath.Join(t.TempDir(), "missing.csv"))

	rec := serve(t, router, http.MethodGet, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "unavailable", status.Services["dataset"].Status)
}
