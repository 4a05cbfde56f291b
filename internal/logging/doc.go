// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Components receive a *Logger, derive a child with Named, and attach the
// tab or session identifier as a field:
//
//	log, err := logging.New(logging.DefaultConfig())
//	...
//	log = log.Named("terminal")
//	log.Debug("session attached", zap.String("tab", tabID.String()))
package logging
