// Package api hosts the HTTP server, middleware, and handlers. Routes:
//   - POST /api/reference builds a citation record for {"url": "..."}.
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
package api
