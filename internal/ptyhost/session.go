package ptyhost

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// Options describes the shell to start.
type Options struct {
	Shell      string
	WorkingDir string
	Cols       int
	Rows       int
	Env        map[string]string
	// TabID is the dock tab the session serves, if known.
	TabID string
}

// Session represents a running shell attached to a PTY.
type Session struct {
	ID         id.SessionID
	TabID      string
	Shell      string
	WorkingDir string
	StartedAt  time.Time

	cmd  *exec.Cmd
	ptmx *os.File

	history *Buffer
	out     *io.PipeReader
	outW    *io.PipeWriter
	done    chan struct{}

	mu       sync.RWMutex
	cols     int
	rows     int
	closed   bool
	exitCode int
}

// Info is the public representation of a session.
type Info struct {
	ID         string    `json:"id"`
	TabID      string    `json:"tab_id,omitempty"`
	Shell      string    `json:"shell"`
	WorkingDir string    `json:"working_dir"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	Active     bool      `json:"active"`
	ExitCode   int       `json:"exit_code"`
}

// Output streams PTY output. It reaches EOF after the shell exits.
func (s *Session) Output() io.Reader {
	return s.out
}

// Done is closed once the shell has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// History returns the most recent output without consuming it.
func (s *Session) History() []byte {
	return s.history.Snapshot()
}

// Size returns the current PTY size.
func (s *Session) Size() (cols, rows int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols, s.rows
}

// Closed reports whether the shell has exited or been killed.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// ExitCode returns the shell's exit status, or -1 when it was killed.
func (s *Session) ExitCode() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exitCode
}

// Info snapshots the session.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		ID:         s.ID.String(),
		TabID:      s.TabID,
		Shell:      s.Shell,
		WorkingDir: s.WorkingDir,
		Cols:       s.cols,
		Rows:       s.rows,
		StartedAt:  s.StartedAt,
		Active:     !s.closed,
		ExitCode:   s.exitCode,
	}
}
