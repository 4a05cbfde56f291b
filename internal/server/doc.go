// Package server wires the terminal endpoint together.
//
// Server Lifecycle:
//  1. Load configuration from the environment
//  2. Initialize logger (production or development)
//  3. Create the PTY manager and metrics registry
//  4. Setup HTTP routes and middleware
//  5. Start HTTP server
//  6. Graceful shutdown on signal, killing every shell
//
// Routes:
//   - GET  /, /health            liveness
//   - GET  /metrics              Prometheus metrics
//   - GET  /api/terminals        list PTY sessions
//   - GET  /api/terminals/ws     attach a terminal (websocket)
//   - GET  /api/terminals/:id    inspect, with /output, /resize, DELETE
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv := server.New(cfg, log)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal("server stopped", zap.Error(err))
//	}
package server
