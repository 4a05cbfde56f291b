// Package middleware provides the HTTP middleware of the terminal endpoint.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting
//   - Trace: X-Trace-ID assignment and propagation
//   - Logger: Request logging through zap
//
// Throttle applies the same token bucket to a stream of values instead of
// requests. Values arriving too fast are not dropped outright: the newest
// one is kept and applied as soon as the bucket refills. The websocket
// handler uses it for terminal resize frames.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
