package keys

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if m contains all of mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod
}

// String renders modifiers in a stable order, e.g. "Ctrl+Shift".
func (m Modifier) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if m&ModMeta != 0 {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// EventType distinguishes key presses from releases.
type EventType int

const (
	KeyDown EventType = iota
	KeyUp
)

func (t EventType) String() string {
	if t == KeyUp {
		return "keyup"
	}
	return "keydown"
}

// Event is a single keyboard event.
type Event struct {
	Type      EventType
	Code      string // physical key, e.g. "KeyC"
	Key       string // produced value, e.g. "c" or "Enter"
	Modifiers Modifier

	defaultPrevented bool
}

// NewEvent creates a keydown event.
func NewEvent(code, key string, mods Modifier) Event {
	return Event{Type: KeyDown, Code: code, Key: key, Modifiers: mods}
}

// Ctrl reports whether Control is held.
func (e *Event) Ctrl() bool { return e.Modifiers&ModCtrl != 0 }

// Shift reports whether Shift is held.
func (e *Event) Shift() bool { return e.Modifiers&ModShift != 0 }

// Alt reports whether Alt is held.
func (e *Event) Alt() bool { return e.Modifiers&ModAlt != 0 }

// Meta reports whether Meta is held.
func (e *Event) Meta() bool { return e.Modifiers&ModMeta != 0 }

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Redispatch returns a copy suitable for delivery to another layer.
// The copy starts with a clear default-prevented flag.
func (e Event) Redispatch() Event {
	e.defaultPrevented = false
	return e
}

func (e Event) String() string {
	mods := e.Modifiers.String()
	if mods == "" {
		return e.Type.String() + " " + e.Code
	}
	return e.Type.String() + " " + mods + "+" + e.Code
}
