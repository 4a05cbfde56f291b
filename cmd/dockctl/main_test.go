package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/dock/internal/config"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/server"
)

func TestRunAgainstEndpoint(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty sessions need a unix host")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	cfg := config.Default()
	cfg.Server.Shell = "/bin/sh"
	srv := server.New(cfg, nil)
	t.Cleanup(func() { srv.Close() })
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg.Channel.URL = "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/terminals/ws"
	cfg.Channel.HandshakeTimeout = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	screen, err := run(ctx, cfg, logging.NewNop(), 2, "echo $((6*7))", 1500*time.Millisecond, 814)
	require.NoError(t, err)
	assert.Contains(t, screen, "42")
}

func TestRunRejectsZeroTabs(t *testing.T) {
	_, err := run(context.Background(), config.Default(), logging.NewNop(), 0, "", 0, 814)
	assert.Error(t, err)
}

func TestLoadThemesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
id: ocean
name: Ocean
colors:
  terminalBackground: "#001122"
  terminalForeground: "#ddeeff"
`), 0o644))

	store, err := loadThemes(config.ThemeConfig{Active: path})
	require.NoError(t, err)
	assert.Equal(t, "ocean", store.Active().ID)
	assert.Equal(t, "#001122", store.ActiveColors()["terminalBackground"])
}

func TestLoadThemesUnknown(t *testing.T) {
	_, err := loadThemes(config.ThemeConfig{Active: "no-such-theme"})
	assert.Error(t, err)
}

func TestPrintTerminals(t *testing.T) {
	srv := server.New(config.Default(), nil)
	t.Cleanup(func() { srv.Close() })
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	api, err := newAPIClient("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/terminals/ws", logging.NewNop())
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, printTerminals(context.Background(), api, &out))
	assert.True(t, strings.HasPrefix(out.String(), "ID"))
	assert.Contains(t, out.String(), "ACTIVE")
}
