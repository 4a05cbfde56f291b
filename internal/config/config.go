package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Terminal TerminalConfig
	Channel  ChannelConfig
	Theme    ThemeConfig
	Logging  LogConfig
}

// ServerConfig holds terminal endpoint configuration.
type ServerConfig struct {
	Port  string `envconfig:"PORT" default:"8000"`
	Host  string `envconfig:"HOST" default:"0.0.0.0"`
	Shell string `envconfig:"SHELL_PATH"`
	// ResizeRate caps resize frames per second on one connection.
	ResizeRate  int `envconfig:"RESIZE_RATE" default:"20"`
	ResizeBurst int `envconfig:"RESIZE_BURST" default:"5"`
}

// TerminalConfig holds the visual configuration and timing of terminal sessions.
type TerminalConfig struct {
	FontSize       int           `envconfig:"TERMINAL_FONT_SIZE" default:"13"`
	FontFamily     string        `envconfig:"TERMINAL_FONT_FAMILY" default:"RobotoMono"`
	CursorStyle    string        `envconfig:"TERMINAL_CURSOR_STYLE" default:"bar"`
	CursorBlink    bool          `envconfig:"TERMINAL_CURSOR_BLINK" default:"true"`
	ResizeDebounce time.Duration `envconfig:"TERMINAL_RESIZE_DEBOUNCE" default:"250ms"`
	FocusDelay     time.Duration `envconfig:"TERMINAL_FOCUS_DELAY" default:"250ms"`
	Scrollback     int           `envconfig:"TERMINAL_SCROLLBACK" default:"1000"`
	CopyKey        string        `envconfig:"TERMINAL_COPY_KEY" default:"ctrl+c"`
	CloseTabKey    string        `envconfig:"TERMINAL_CLOSE_TAB_KEY" default:"ctrl+w"`
}

// ChannelConfig holds command channel connection settings.
type ChannelConfig struct {
	URL              string        `envconfig:"TERMINAL_URL" default:"ws://localhost:8000/api/terminals/ws"`
	WriteQueue       int           `envconfig:"TERMINAL_WRITE_QUEUE" default:"256"`
	HandshakeTimeout time.Duration `envconfig:"TERMINAL_HANDSHAKE_TIMEOUT" default:"10s"`
}

// ThemeConfig selects the active theme.
type ThemeConfig struct {
	Active string `envconfig:"THEME" default:"dark"`
	// File is a theme file or a glob of theme files loaded at startup.
	File string `envconfig:"THEME_FILE"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			ResizeRate:  20,
			ResizeBurst: 5,
		},
		Terminal: TerminalConfig{
			FontSize:       13,
			FontFamily:     "RobotoMono",
			CursorStyle:    "bar",
			CursorBlink:    true,
			ResizeDebounce: 250 * time.Millisecond,
			FocusDelay:     250 * time.Millisecond,
			Scrollback:     1000,
			CopyKey:        "ctrl+c",
			CloseTabKey:    "ctrl+w",
		},
		Channel: ChannelConfig{
			URL:              "ws://localhost:8000/api/terminals/ws",
			WriteQueue:       256,
			HandshakeTimeout: 10 * time.Second,
		},
		Theme: ThemeConfig{
			Active: "dark",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
