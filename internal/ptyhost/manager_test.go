package ptyhost

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newShell(t *testing.T, m *Manager) (*Session, *syncBuffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("pty sessions need a unix host")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	s, err := m.CreateSession(Options{Shell: "/bin/sh", WorkingDir: t.TempDir(), Cols: 80, Rows: 24})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Kill(s.ID) })

	out := &syncBuffer{}
	go io.Copy(out, s.Output())
	return s, out
}

func TestCreateWriteRead(t *testing.T) {
	m := NewManager(nil, nil)
	s, out := newShell(t, m)

	require.NoError(t, m.Write(s.ID, []byte("echo $((40+2))\n")))
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("42"))
	}, 5*time.Second, 10*time.Millisecond)

	assert.Contains(t, string(s.History()), "42")
	info := s.Info()
	assert.True(t, info.Active)
	assert.Equal(t, "/bin/sh", info.Shell)
}

func TestShellExitClosesSession(t *testing.T) {
	m := NewManager(nil, nil)
	s, _ := newShell(t, m)

	require.NoError(t, m.Write(s.ID, []byte("exit 3\n")))

	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit")
	}
	assert.True(t, s.Closed())
	assert.Equal(t, 3, s.ExitCode())
	assert.ErrorIs(t, m.Write(s.ID, []byte("ls\n")), ErrSessionClosed)
	assert.ErrorIs(t, m.Resize(s.ID, 100, 30), ErrSessionClosed)
}

func TestKillForgetsSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	m := NewManager(nil, metrics)
	s, _ := newShell(t, m)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PTYSessions))

	require.NoError(t, m.Kill(s.ID))
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("shell survived kill")
	}

	_, err := m.GetSession(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, m.ListSessions())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PTYSessions))
}

func TestResize(t *testing.T) {
	m := NewManager(nil, nil)
	s, _ := newShell(t, m)

	require.NoError(t, m.Resize(s.ID, 120, 40))
	cols, rows := s.Size()
	assert.Equal(t, 120, cols)
	assert.Equal(t, 40, rows)

	assert.Error(t, m.Resize(s.ID, 0, 40))
}

func TestListSessions(t *testing.T) {
	m := NewManager(nil, nil)
	a, _ := newShell(t, m)
	b, _ := newShell(t, m)

	list := m.ListSessions()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID.String(), list[0].ID)
	assert.Equal(t, b.ID.String(), list[1].ID)
}

func TestUnknownSession(t *testing.T) {
	m := NewManager(nil, nil)
	missing := id.NewSessionID()

	assert.ErrorIs(t, m.Write(missing, nil), ErrSessionNotFound)
	assert.ErrorIs(t, m.Kill(missing), ErrSessionNotFound)
	_, err := m.Read(missing)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
