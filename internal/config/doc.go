// Package config provides 12-factor configuration for the dock terminal
// client and the terminal endpoint.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: endpoint HTTP settings and the shell it spawns
//   - Terminal: renderer look, key bindings and timing of the session core
//   - Channel: where and how the client reaches the endpoint
//   - Theme: active theme and optional theme file
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("debounce %s\n", cfg.Terminal.ResizeDebounce)
//
// Environment Variables:
//   - PORT, HOST, SHELL_PATH
//   - TERMINAL_FONT_SIZE, TERMINAL_FONT_FAMILY, TERMINAL_CURSOR_STYLE,
//     TERMINAL_CURSOR_BLINK, TERMINAL_RESIZE_DEBOUNCE, TERMINAL_FOCUS_DELAY,
//     TERMINAL_SCROLLBACK, TERMINAL_COPY_KEY, TERMINAL_CLOSE_TAB_KEY
//   - TERMINAL_URL, TERMINAL_WRITE_QUEUE, TERMINAL_HANDSHAKE_TIMEOUT
//   - THEME, THEME_FILE
//   - LOG_LEVEL, LOG_DEV
package config
