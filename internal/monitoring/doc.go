// Package monitoring provides Prometheus metrics for the dock terminal core
// and the terminal endpoint.
//
// Metrics:
//   - dock_terminal_sessions_active: live terminal sessions
//   - dock_terminal_fits_total: fit passes that produced a valid geometry
//   - dock_terminal_remote_resizes_total: size notifications sent to the remote side
//   - dock_terminal_input_dropped_total: input chunks dropped before readiness
//   - dock_terminal_output_bytes_total: bytes written into renderers
//   - dock_ws_connections: open endpoint websocket connections
//   - dock_ws_frames_total: endpoint frames by direction and channel
//   - dock_pty_sessions_active: running PTY sessions on the endpoint
//
// All methods are nil-safe so components can run without metrics.
//
// Example Usage:
//
//	reg := prometheus.NewRegistry()
//	metrics := monitoring.NewMetrics(reg)
//	router.GET("/metrics", gin.WrapH(monitoring.Handler(reg)))
package monitoring
