// Package api implements the exporter's HTTP surface.
//
// New(scraper, selfMetrics) returns an http.Handler that serves:
//
//	GET /metrics           validator grade payload, one fresh scrape per request
//	GET /health            "ok"
//	GET /exporter/metrics  the exporter's own operational metrics
//
// All endpoints:
//   - Respond 200 for GET and HEAD; per-target upstream failures are part of
//     the /metrics payload, never an HTTP error
//   - Return 405 for any other method
//
// No external HTTP framework is used.
package api
