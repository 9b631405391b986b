// Package pkglog sets up the slog JSON logger shared by the service.
//
// Records use "ts", "severity" and "file" keys and carry the service name.
// The request correlation ID and the dashboard session ID are read from the
// context, so handlers only need to tag ctx once.
package pkglog
