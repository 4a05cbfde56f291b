package dock

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// Panel height limits in pixels.
const (
	DefaultHeight = 300
	MinHeight     = 100
)

// ErrTabNotFound is returned for unknown tab IDs.
var ErrTabNotFound = errors.New("tab not found")

// Tab is one entry of the dock's tab strip.
type Tab struct {
	ID    id.TabID
	Title string
}

// Store is the dock state. All methods are safe for concurrent use;
// listeners are called without the lock held.
type Store struct {
	log *logging.Logger

	mu       sync.RWMutex
	tabs     []Tab
	selected id.TabID
	open     bool
	height   int
	clip     string
	links    []string

	opener func(uri string)

	resized  event.Emitter[struct{}]
	selectEv event.Emitter[id.TabID]
	closed   event.Emitter[id.TabID]
	openEv   event.Emitter[bool]

	closeTabKey keys.Chord
	closeDock   keys.Chord
}

// Option configures a Store.
type Option func(*Store)

// WithLinkOpener sets the function that receives links opened from terminals.
func WithLinkOpener(fn func(uri string)) Option {
	return func(s *Store) { s.opener = fn }
}

// WithCloseTabKey overrides the chord that closes the selected tab.
func WithCloseTabKey(c keys.Chord) Option {
	return func(s *Store) { s.closeTabKey = c }
}

// NewStore creates an empty, closed dock.
func NewStore(log *logging.Logger, opts ...Option) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	s := &Store{
		log:         log.Named("dock"),
		height:      DefaultHeight,
		closeTabKey: keys.Chord{Modifiers: keys.ModCtrl, Code: "KeyW"},
		closeDock:   keys.Chord{Modifiers: keys.ModShift, Code: "Escape"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tabs returns a copy of the tab list.
func (s *Store) Tabs() []Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// SelectedTabID returns the selected tab, or "" when there are no tabs.
func (s *Store) SelectedTabID() id.TabID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// IsOpen reports whether the panel is expanded.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Height returns the panel height in pixels.
func (s *Store) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height
}

// AddTab appends a tab, selects it and opens the panel.
func (s *Store) AddTab(title string) Tab {
	tab := Tab{ID: id.NewTabID(), Title: title}

	s.mu.Lock()
	s.tabs = append(s.tabs, tab)
	s.mu.Unlock()

	s.log.Debug("tab added", zap.String("tab", tab.ID.String()), zap.String("title", title))
	_ = s.SelectTab(tab.ID)
	s.Open()
	return tab
}

// SelectTab makes tabID the selected tab.
func (s *Store) SelectTab(tabID id.TabID) error {
	s.mu.Lock()
	if s.indexOf(tabID) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}
	changed := s.selected != tabID
	s.selected = tabID
	s.mu.Unlock()

	if changed {
		s.selectEv.Emit(tabID)
		s.resized.Emit(struct{}{})
	}
	return nil
}

// CloseTab removes a tab. The neighbouring tab becomes selected; closing
// the last tab closes the panel.
func (s *Store) CloseTab(tabID id.TabID) error {
	s.mu.Lock()
	i := s.indexOf(tabID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)

	var next id.TabID
	wasSelected := s.selected == tabID
	if wasSelected {
		if len(s.tabs) > 0 {
			next = s.tabs[min(i, len(s.tabs)-1)].ID
		}
		s.selected = next
	}
	empty := len(s.tabs) == 0
	s.mu.Unlock()

	s.log.Debug("tab closed", zap.String("tab", tabID.String()))
	s.closed.Emit(tabID)

	if wasSelected && next != "" {
		s.selectEv.Emit(next)
		s.resized.Emit(struct{}{})
	}
	if empty {
		s.Close()
	}
	return nil
}

// Open expands the panel.
func (s *Store) Open() {
	if !s.setOpen(true) {
		return
	}
	s.openEv.Emit(true)
	s.resized.Emit(struct{}{})
}

// Close collapses the panel.
func (s *Store) Close() {
	if s.setOpen(false) {
		s.openEv.Emit(false)
	}
}

// Toggle flips the panel between open and closed.
func (s *Store) Toggle() {
	if s.IsOpen() {
		s.Close()
		return
	}
	s.Open()
}

func (s *Store) setOpen(open bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == open {
		return false
	}
	s.open = open
	return true
}

// SetHeight resizes the panel, clamped to MinHeight.
func (s *Store) SetHeight(h int) {
	h = max(h, MinHeight)

	s.mu.Lock()
	changed := s.height != h
	s.height = h
	s.mu.Unlock()

	if changed {
		s.resized.Emit(struct{}{})
	}
}

// NotifyWindowResize broadcasts a window resize.
func (s *Store) NotifyWindowResize() {
	s.resized.Emit(struct{}{})
}

// OnResize registers fn for resize broadcasts.
func (s *Store) OnResize(fn func()) event.Release {
	return s.resized.On(func(struct{}) { fn() })
}

// OnSelect registers fn for selection changes.
func (s *Store) OnSelect(fn func(tabID id.TabID)) event.Release {
	return s.selectEv.On(fn)
}

// OnTabClosed registers fn for tab removals.
func (s *Store) OnTabClosed(fn func(tabID id.TabID)) event.Release {
	return s.closed.On(fn)
}

// OnOpenChange registers fn for panel open/close transitions.
func (s *Store) OnOpenChange(fn func(open bool)) event.Release {
	return s.openEv.On(fn)
}

// DispatchKey evaluates the dock hotkeys for an event that reached the
// dock. Events with the default action prevented are ignored.
func (s *Store) DispatchKey(ev keys.Event) {
	if ev.DefaultPrevented() {
		return
	}

	switch {
	case s.closeTabKey.Matches(&ev):
		if sel := s.SelectedTabID(); sel != "" {
			_ = s.CloseTab(sel)
		}
	case s.closeDock.Matches(&ev):
		s.Close()
	}
}

// OpenLink records uri and passes it to the configured opener.
func (s *Store) OpenLink(uri string) {
	s.mu.Lock()
	s.links = append(s.links, uri)
	opener := s.opener
	s.mu.Unlock()

	s.log.Debug("open link", zap.String("uri", uri))
	if opener != nil {
		opener(uri)
	}
}

// OpenedLinks returns every link passed to OpenLink.
func (s *Store) OpenedLinks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.links))
	copy(out, s.links)
	return out
}

// WriteText stores text as the clipboard content.
func (s *Store) WriteText(text string) {
	s.mu.Lock()
	s.clip = text
	s.mu.Unlock()
}

// ClipboardText returns the last text written with WriteText.
func (s *Store) ClipboardText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clip
}

func (s *Store) indexOf(tabID id.TabID) int {
	for i, t := range s.tabs {
		if t.ID == tabID {
			return i
		}
	}
	return -1
}
