// Package server hosts the Fiber HTTP surface used by serve mode: it exposes each
// configured bootstrap source at /bootstrap/:name (served from the disk cache or
// refreshed upstream), plus diagnostics under /-/ (source listing, Prometheus
// metrics). It also owns the shared upstream http.Client so CLI and server use
// the same transport tuning. Keep exports narrow and accept explicit dependencies.
package server
