// Package handlers provides the HTTP endpoints served next to the shell
// when metrics are enabled.
//
// Endpoints:
//   - GET /metrics: Prometheus metrics
//   - GET /healthz: store summary; 503 when the store cannot be read
//   - GET|HEAD /livez: liveness probe
//   - GET /version: build information
package handlers
