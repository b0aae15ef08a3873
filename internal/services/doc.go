// Package services sits between the HTTP handlers and the report packages.
//
// ReportService owns the dataset loader and the report driver and caches
// the built page. ExportService writes that page and its plotted tables to
// disk. HealthService answers liveness and readiness probes.
package services
