package keys

import (
	"fmt"
	"strings"
	"unicode"
)

// Chord is a modifier combination plus a key code.
type Chord struct {
	Modifiers Modifier
	Code      string
}

// Matches reports whether ev is a keydown carrying at least the chord's
// modifiers on the chord's key.
func (c Chord) Matches(ev *Event) bool {
	if ev == nil || c.Code == "" {
		return false
	}
	return ev.Type == KeyDown && ev.Code == c.Code && ev.Modifiers.Has(c.Modifiers)
}

func (c Chord) String() string {
	mods := c.Modifiers.String()
	if mods == "" {
		return c.Code
	}
	return mods + "+" + c.Code
}

// ParseChord parses strings such as "ctrl+c", "Ctrl+KeyW" or "shift+escape".
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Chord{}, fmt.Errorf("invalid chord %q", s)
	}

	var c Chord
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			c.Modifiers |= ModCtrl
		case "shift":
			c.Modifiers |= ModShift
		case "alt", "option":
			c.Modifiers |= ModAlt
		case "meta", "cmd", "super":
			c.Modifiers |= ModMeta
		default:
			return Chord{}, fmt.Errorf("invalid modifier %q in chord %q", p, s)
		}
	}

	c.Code = codeFor(strings.TrimSpace(parts[len(parts)-1]))
	return c, nil
}

// MustParseChord is ParseChord for package-level defaults.
func MustParseChord(s string) Chord {
	c, err := ParseChord(s)
	if err != nil {
		panic(err)
	}
	return c
}

var namedCodes = map[string]string{
	"enter":     "Enter",
	"escape":    "Escape",
	"esc":       "Escape",
	"tab":       "Tab",
	"space":     "Space",
	"backspace": "Backspace",
	"delete":    "Delete",
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"home":      "Home",
	"end":       "End",
	"pageup":    "PageUp",
	"pagedown":  "PageDown",
}

// codeFor maps a short key name to a code: "c" -> "KeyC", "1" -> "Digit1".
func codeFor(name string) string {
	if code, ok := namedCodes[strings.ToLower(name)]; ok {
		return code
	}
	r := []rune(name)
	if len(r) == 1 {
		switch {
		case unicode.IsLetter(r[0]):
			return "Key" + string(unicode.ToUpper(r[0]))
		case unicode.IsDigit(r[0]):
			return "Digit" + string(r[0])
		}
	}
	return name
}
