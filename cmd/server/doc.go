// Package main is the entry point for the dock terminal endpoint.
//
// The endpoint is the remote side of every dock terminal tab: each
// websocket attached to /api/terminals/ws gets a shell under a PTY.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -shell /bin/zsh
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
