package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"salarypulse/internal/dataset"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	loader    *dataset.Loader
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// NewHealthService creates a health service. loader may be nil, in which
// case readiness does not check the dataset.
func NewHealthService(version, buildTime string, loader *dataset.Loader, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		loader:    loader,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports liveness.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check")
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
	}
}

// ReadinessCheck reports whether the dataset can be served.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]ServiceHealth{},
	}
	if hs.loader == nil {
		return status
	}

	table, err := hs.loader.Load(ctx)
	if err != nil {
		status.Status = "not_ready"
		status.Services["dataset"] = ServiceHealth{Status: "unavailable", Message: err.Error()}
		hs.logger.WarnContext(ctx, "Readiness check failed",
			slog.String("path", hs.loader.Path()),
			slog.String("error", err.Error()))
		return status
	}
	status.Services["dataset"] = ServiceHealth{
		Status:  "ok",
		Message: fmt.Sprintf("%d years, %d columns", table.Rows(), len(table.Columns())),
	}
	return status
}

// IsReady reports whether ReadinessCheck would return ready.
func (hs *HealthService) IsReady(ctx context.Context) bool {
	return hs.ReadinessCheck(ctx).Status == "ready"
}

// Version returns build information.
func (hs *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   hs.version,
		BuildTime: hs.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
