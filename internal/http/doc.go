// Package http provides the REST handlers of the terminal endpoint.
//
// Endpoints:
//   - Health: / and /health
//   - Terminals: GET /api/terminals, GET /api/terminals/:id,
//     GET /api/terminals/:id/output, POST /api/terminals/:id/resize,
//     DELETE /api/terminals/:id
//
// Terminals are created by attaching to /api/terminals/ws; these
// handlers only inspect and control running ones.
//
// Example Usage:
//
//	handlers := http.NewHandlers(ptys)
//	router.GET("/health", handlers.Health)
//	router.GET("/api/terminals", handlers.ListTerminals)
package http
