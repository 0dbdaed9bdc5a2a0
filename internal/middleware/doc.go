// Package middleware provides HTTP middleware for the metrics server.
//
// [Logger] writes one sanitized debug line per request, optionally
// skipping metric scrapes and health probes.
package middleware
