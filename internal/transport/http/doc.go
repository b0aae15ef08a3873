// Package http holds the HTTP handlers of the report server. Handlers parse
// and validate requests, call the service layer and write responses; errors
// go through the shared ErrorHandler as RFC 7807 problems.
//
// Routes:
//
//	GET  /                                    report page (HTML)
//	GET  /api/health                          liveness
//	GET  /api/health/ready                    readiness (dataset loaded)
//	GET  /api/version                         build information
//	GET  /api/report/charts/{section}/{block} one chart image, 1-based
//	GET  /api/report/tables                   reshaped table as JSON or CSV
//	GET  /api/report/definition               report definition as YAML
//	POST /api/report/refresh                  drop the cached page
//	GET  /api/files                           exported artifacts, ?kind= filter
//	GET  /api/files/{path}                    download one artifact
package http
