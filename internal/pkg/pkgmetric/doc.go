// Package pkgmetric holds the Prometheus collectors exported by the service.
//
// Collectors are registered on a dedicated registry so tests can build an
// isolated instance, and the registry is served by the router on /metrics.
package pkgmetric
