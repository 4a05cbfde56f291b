package theme

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
)

var (
	// ErrThemeNotFound is returned for unknown theme IDs.
	ErrThemeNotFound = errors.New("theme not found")
	// ErrBuiltin is returned when deleting a built-in theme.
	ErrBuiltin = errors.New("cannot delete built-in theme")
	// ErrActive is returned when deleting the active theme.
	ErrActive = errors.New("cannot delete active theme")
	// ErrInvalidTheme is returned for themes without an ID.
	ErrInvalidTheme = errors.New("theme must have an id")
)

// Theme represents a UI theme
type Theme struct {
	ID          string            `json:"id" yaml:"id" toml:"id"`
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Type        string            `json:"type" yaml:"type" toml:"type"` // "dark", "light", "custom"
	Colors      map[string]string `json:"colors" yaml:"colors" toml:"colors"`
	Fonts       map[string]string `json:"fonts,omitempty" yaml:"fonts,omitempty" toml:"fonts,omitempty"`
}

// Store holds themes and tracks the active one.
type Store struct {
	mu      sync.RWMutex
	themes  map[string]Theme
	current string
	changed event.Emitter[map[string]string]
}

// NewStore creates a store seeded with the built-in themes.
// An unknown active ID falls back to "dark".
func NewStore(active string) *Store {
	s := &Store{themes: make(map[string]Theme)}
	for _, t := range builtins() {
		s.themes[t.ID] = t
	}
	if _, ok := s.themes[active]; !ok {
		active = "dark"
	}
	s.current = active
	return s
}

// List returns all themes sorted by ID.
func (s *Store) List() []Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Theme, 0, len(s.themes))
	for _, t := range s.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the theme with the given ID.
func (s *Store) Get(id string) (Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.themes[id]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	return t, nil
}

// Active returns the active theme.
func (s *Store) Active() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themes[s.current]
}

// ActiveColors returns a copy of the active theme's colors.
func (s *Store) ActiveColors() map[string]string {
	return copyColors(s.Active().Colors)
}

// SetActive switches the active theme and notifies listeners.
// Selecting the already active theme does not notify.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	t, ok := s.themes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	if s.current == id {
		s.mu.Unlock()
		return nil
	}
	s.current = id
	s.mu.Unlock()

	s.changed.Emit(copyColors(t.Colors))
	return nil
}

// Create adds or replaces a theme. Replacing the active theme notifies listeners.
func (s *Store) Create(t Theme) error {
	if t.ID == "" {
		return ErrInvalidTheme
	}
	if t.Type == "" {
		t.Type = "custom"
	}
	t.Colors = copyColors(t.Colors)

	s.mu.Lock()
	s.themes[t.ID] = t
	active := s.current == t.ID
	s.mu.Unlock()

	if active {
		s.changed.Emit(copyColors(t.Colors))
	}
	return nil
}

// Delete removes a custom theme.
func (s *Store) Delete(id string) error {
	if isBuiltin(id) {
		return ErrBuiltin
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.themes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	if s.current == id {
		return ErrActive
	}
	delete(s.themes, id)
	return nil
}

// OnChange registers fn for active theme changes. fn receives the new colors.
func (s *Store) OnChange(fn func(colors map[string]string)) event.Release {
	return s.changed.On(fn)
}

func copyColors(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
