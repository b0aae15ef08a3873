// Package middleware holds the HTTP middleware chain: request IDs, request
// logging, panic recovery, rate limiting, timeouts, security headers and
// OpenTelemetry instrumentation, plus query parameter validation helpers.
package middleware
