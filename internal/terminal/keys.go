package terminal

import (
	"fmt"

	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
)

// KeyBindings are the chords the terminal handles itself.
type KeyBindings struct {
	Copy     keys.Chord
	CloseTab keys.Chord
}

// DefaultKeyBindings returns Ctrl+C for copy and Ctrl+W for close tab.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Copy:     keys.Chord{Modifiers: keys.ModCtrl, Code: "KeyC"},
		CloseTab: keys.Chord{Modifiers: keys.ModCtrl, Code: "KeyW"},
	}
}

// ParseKeyBindings builds bindings from chord strings such as "ctrl+c".
func ParseKeyBindings(copyChord, closeTab string) (KeyBindings, error) {
	c, err := keys.ParseChord(copyChord)
	if err != nil {
		return KeyBindings{}, fmt.Errorf("copy key: %w", err)
	}
	w, err := keys.ParseChord(closeTab)
	if err != nil {
		return KeyBindings{}, fmt.Errorf("close tab key: %w", err)
	}
	return KeyBindings{Copy: c, CloseTab: w}, nil
}

// Decision is the outcome of Decide for one key event.
type Decision struct {
	// ConsumeLocally means the terminal acts on the event itself
	// (copying the selection) and nobody else sees it.
	ConsumeLocally bool
	// PreventDefault suppresses the event's default action.
	PreventDefault bool
	// ForwardToHost means the event is re-dispatched to the dock.
	ForwardToHost bool
	// PassToRenderer means the renderer processes the event.
	PassToRenderer bool
}

// Decide classifies a key event. It has no side effects.
func Decide(ev keys.Event, hasSelection bool, b KeyBindings) Decision {
	if b.Copy.Matches(&ev) && hasSelection {
		return Decision{ConsumeLocally: true}
	}
	if b.CloseTab.Matches(&ev) {
		return Decision{PreventDefault: true, PassToRenderer: true}
	}
	return Decision{
		ForwardToHost:  !ev.DefaultPrevented(),
		PassToRenderer: true,
	}
}
