// Package server runs the HTTP API server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown of in-flight requests.
package server
