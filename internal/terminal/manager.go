package terminal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// TabEvents reports tab lifecycle changes of the dock.
type TabEvents interface {
	OnSelect(fn func(tabID id.TabID)) event.Release
	OnTabClosed(fn func(tabID id.TabID)) event.Release
}

// Manager owns the sessions of all terminal tabs and keeps the selected
// one attached to the dock's terminal container.
type Manager struct {
	deps Deps
	opts Options
	log  *logging.Logger

	sessions  map[id.TabID]*Session
	attached  *Session
	container *layout.Element
	subs      []event.Release
}

// NewManager creates a manager whose sessions share deps and opts.
func NewManager(deps Deps, opts Options) *Manager {
	if deps.Log == nil {
		deps.Log = logging.NewNop()
	}
	return &Manager{
		deps:     deps,
		opts:     opts,
		log:      deps.Log.Named("terminals"),
		sessions: make(map[id.TabID]*Session),
	}
}

// Watch keeps the manager in step with the dock: the selected tab's
// session is attached to container and sessions of closed tabs are
// destroyed. Call Stop to undo.
func (m *Manager) Watch(events TabEvents, container *layout.Element) {
	m.container = container
	m.subs = append(m.subs,
		events.OnSelect(func(id.TabID) {
			if err := m.Sync(container); err != nil {
				m.log.Debug("sync", zap.Error(err))
			}
		}),
		events.OnTabClosed(func(tabID id.TabID) {
			if err := m.Close(tabID); err != nil {
				m.log.Debug("close tab session", zap.String("tab", tabID.String()), zap.Error(err))
			}
		}),
	)
}

// Stop releases the registrations made by Watch.
func (m *Manager) Stop() {
	for _, release := range m.subs {
		release()
	}
	m.subs = nil
}

// Open creates and initializes the session of tabID.
func (m *Manager) Open(tabID id.TabID, ch CommandChannel) (*Session, error) {
	if _, ok := m.sessions[tabID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, tabID)
	}

	s := NewSession(tabID, ch, m.deps, m.opts)
	if err := s.Init(); err != nil {
		return nil, err
	}
	m.sessions[tabID] = s
	m.log.Debug("session opened", zap.String("tab", tabID.String()))

	if m.container != nil && m.deps.Host != nil && m.deps.Host.SelectedTabID() == tabID {
		if err := m.Activate(tabID, m.container); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Get returns the session of tabID.
func (m *Manager) Get(tabID id.TabID) (*Session, bool) {
	s, ok := m.sessions[tabID]
	return s, ok
}

// Len returns the number of open sessions.
func (m *Manager) Len() int { return len(m.sessions) }

// Attached returns the session currently shown, or nil.
func (m *Manager) Attached() *Session { return m.attached }

// Activate shows tabID's session in container, parking the previously
// shown session.
func (m *Manager) Activate(tabID id.TabID, container *layout.Element) error {
	s, ok := m.sessions[tabID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, tabID)
	}
	if m.attached != nil && m.attached != s {
		m.attached.Detach()
	}
	m.attached = s
	return s.AttachTo(container)
}

// Sync shows the session of the dock's selected tab, or nothing when the
// selected tab has no session.
func (m *Manager) Sync(container *layout.Element) error {
	sel := id.TabID("")
	if m.deps.Host != nil {
		sel = m.deps.Host.SelectedTabID()
	}
	if _, ok := m.sessions[sel]; !ok {
		if m.attached != nil {
			m.attached.Detach()
			m.attached = nil
		}
		return nil
	}
	return m.Activate(sel, container)
}

// Close destroys and forgets the session of tabID.
func (m *Manager) Close(tabID id.TabID) error {
	s, ok := m.sessions[tabID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, tabID)
	}
	if m.attached == s {
		m.attached = nil
	}
	delete(m.sessions, tabID)
	s.Destroy()
	m.log.Debug("session closed", zap.String("tab", tabID.String()))
	return nil
}

// CloseAll destroys every session, as on window unload.
func (m *Manager) CloseAll() {
	for tabID := range m.sessions {
		_ = m.Close(tabID)
	}
}
