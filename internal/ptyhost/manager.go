package ptyhost

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

const (
	DefaultCols        = 80
	DefaultRows        = 24
	DefaultHistorySize = 1024 * 1024

	// drainTimeout bounds how long output is drained after the shell exits.
	// Background jobs can keep the PTY slave open indefinitely.
	drainTimeout = 500 * time.Millisecond
)

var (
	ErrSessionNotFound = errors.New("pty session not found")
	ErrSessionClosed   = errors.New("pty session is closed")
)

// Manager manages PTY sessions.
type Manager struct {
	sessions     sync.Map // map[id.SessionID]*Session
	log          *logging.Logger
	metrics      *monitoring.Metrics
	defaultShell string
	historySize  int
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultShell sets the shell used when Options.Shell is empty.
func WithDefaultShell(shell string) Option {
	return func(m *Manager) { m.defaultShell = shell }
}

// WithHistorySize sets the per-session history buffer size in bytes.
func WithHistorySize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.historySize = n
		}
	}
}

// NewManager creates a new session manager.
func NewManager(log *logging.Logger, metrics *monitoring.Metrics, opts ...Option) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	m := &Manager{
		log:         log.Named("pty"),
		metrics:     metrics,
		historySize: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) shell(requested string) string {
	if requested != "" {
		return requested
	}
	if m.defaultShell != "" {
		return m.defaultShell
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}

// CreateSession starts a shell under a new PTY.
func (m *Manager) CreateSession(opts Options) (*Session, error) {
	shell := m.shell(opts.Shell)

	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir = os.Getenv("HOME")
		if workingDir == "" {
			workingDir = os.TempDir()
		}
	}

	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}

	cmd := exec.Command(shell)
	cmd.Dir = workingDir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	for key, value := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	pr, pw := io.Pipe()
	session := &Session{
		ID:         id.NewSessionID(),
		TabID:      opts.TabID,
		Shell:      shell,
		WorkingDir: workingDir,
		StartedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		history:    NewBuffer(m.historySize),
		out:        pr,
		outW:       pw,
		done:       make(chan struct{}),
		cols:       cols,
		rows:       rows,
	}

	m.sessions.Store(session.ID, session)
	m.metrics.PTYStarted()
	m.log.Debug("pty session started",
		zap.String("session", session.ID.String()),
		zap.String("tab", session.TabID),
		zap.String("shell", shell),
		zap.Int("pid", cmd.Process.Pid))

	drained := make(chan struct{})
	go m.readOutput(session, drained)
	go m.monitorProcess(session, drained)

	return session, nil
}

// readOutput copies PTY output into the history buffer and output stream.
func (m *Manager) readOutput(session *Session, drained chan<- struct{}) {
	defer close(drained)
	defer session.outW.Close()

	w := io.MultiWriter(session.history, session.outW)
	buf := make([]byte, 4096)
	for {
		n, err := session.ptmx.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			// EIO is the normal end of a PTY once the slave side is gone.
			if err != io.EOF && !errors.Is(err, os.ErrClosed) {
				m.log.Debug("pty read ended", zap.String("session", session.ID.String()), zap.Error(err))
			}
			return
		}
	}
}

// monitorProcess waits for the shell to exit and releases the PTY.
func (m *Manager) monitorProcess(session *Session, drained <-chan struct{}) {
	_ = session.cmd.Wait()

	code := -1
	if state := session.cmd.ProcessState; state != nil {
		code = state.ExitCode()
	}

	timer := time.NewTimer(drainTimeout)
	select {
	case <-drained:
	case <-timer.C:
	}
	timer.Stop()

	session.mu.Lock()
	session.closed = true
	session.exitCode = code
	session.mu.Unlock()

	session.ptmx.Close()
	session.outW.Close()
	m.metrics.PTYStopped()
	close(session.done)

	m.log.Debug("pty session exited",
		zap.String("session", session.ID.String()),
		zap.Int("exit_code", code))
}

func (m *Manager) lookup(sessionID id.SessionID) (*Session, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return value.(*Session), nil
}

// Write sends input to a session.
func (m *Manager) Write(sessionID id.SessionID, input []byte) error {
	session, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	session.mu.RLock()
	closed := session.closed
	session.mu.RUnlock()

	if closed {
		return fmt.Errorf("%w: %s", ErrSessionClosed, sessionID)
	}

	_, err = session.ptmx.Write(input)
	return err
}

// Read drains the buffered output of a session.
func (m *Manager) Read(sessionID id.SessionID) ([]byte, error) {
	session, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return session.history.ReadAll(), nil
}

// Resize changes terminal dimensions.
func (m *Manager) Resize(sessionID id.SessionID, cols, rows int) error {
	if cols <= 0 || rows <= 0 || cols > 0xffff || rows > 0xffff {
		return fmt.Errorf("invalid terminal size %dx%d", cols, rows)
	}

	session, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return fmt.Errorf("%w: %s", ErrSessionClosed, sessionID)
	}

	if err := pty.Setsize(session.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	session.cols = cols
	session.rows = rows
	return nil
}

// Kill terminates a session and forgets it.
func (m *Manager) Kill(sessionID id.SessionID) error {
	session, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	m.sessions.Delete(sessionID)

	session.mu.RLock()
	closed := session.closed
	session.mu.RUnlock()

	if closed {
		return nil
	}

	if session.cmd.Process != nil {
		if err := session.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill shell: %w", err)
		}
	}
	m.log.Debug("pty session killed", zap.String("session", sessionID.String()))
	return nil
}

// KillAll terminates every session.
func (m *Manager) KillAll() {
	m.sessions.Range(func(key, _ any) bool {
		_ = m.Kill(key.(id.SessionID))
		return true
	})
}

// GetSession retrieves a session.
func (m *Manager) GetSession(sessionID id.SessionID) (*Session, error) {
	return m.lookup(sessionID)
}

// ListSessions returns all known sessions, oldest first.
func (m *Manager) ListSessions() []Info {
	sessions := []Info{}
	m.sessions.Range(func(_, value any) bool {
		sessions = append(sessions, value.(*Session).Info())
		return true
	})
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})
	return sessions
}
