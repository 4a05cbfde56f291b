package renderer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
)

var namedKeys = map[string]string{
	"Enter":     "\r",
	"Tab":       "\t",
	"Backspace": "\x7f",
	"Escape":    "\x1b",
	"Delete":    "\x1b[3~",
	"Insert":    "\x1b[2~",
	"PageUp":    "\x1b[5~",
	"PageDown":  "\x1b[6~",
	"Home":      "\x1b[H",
	"End":       "\x1b[F",
	"F1":        "\x1bOP",
	"F2":        "\x1bOQ",
	"F3":        "\x1bOR",
	"F4":        "\x1bOS",
	"F5":        "\x1b[15~",
	"F6":        "\x1b[17~",
	"F7":        "\x1b[18~",
	"F8":        "\x1b[19~",
	"F9":        "\x1b[20~",
	"F10":       "\x1b[21~",
	"F11":       "\x1b[23~",
	"F12":       "\x1b[24~",
}

var arrows = map[string]byte{
	"ArrowUp":    'A',
	"ArrowDown":  'B',
	"ArrowRight": 'C',
	"ArrowLeft":  'D',
}

// encodeKey translates a keydown into the bytes a VT terminal sends.
// appCursor selects SS3 arrow sequences (DECCKM).
func encodeKey(ev keys.Event, appCursor bool) string {
	if final, ok := arrows[ev.Key]; ok {
		if ev.Modifiers != keys.ModNone {
			return "\x1b[1;" + strconv.Itoa(1+xtermModifier(ev.Modifiers)) + string(final)
		}
		if appCursor {
			return "\x1bO" + string(final)
		}
		return "\x1b[" + string(final)
	}

	if ev.Key == "Tab" && ev.Shift() {
		return "\x1b[Z"
	}
	if seq, ok := namedKeys[ev.Key]; ok {
		if ev.Alt() {
			return "\x1b" + seq
		}
		return seq
	}

	if ev.Ctrl() && !ev.Meta() {
		if b, ok := controlByte(ev); ok {
			if ev.Alt() {
				return "\x1b" + string(rune(b))
			}
			return string(rune(b))
		}
		return ""
	}
	if ev.Meta() {
		return ""
	}

	if utf8.RuneCountInString(ev.Key) != 1 {
		return ""
	}
	if ev.Alt() {
		return "\x1b" + ev.Key
	}
	return ev.Key
}

// controlByte maps Ctrl+<key> to its C0 control code.
func controlByte(ev keys.Event) (byte, bool) {
	if strings.HasPrefix(ev.Code, "Key") && len(ev.Code) == 4 {
		c := ev.Code[3]
		if c >= 'A' && c <= 'Z' {
			return c - 'A' + 1, true
		}
	}
	switch ev.Code {
	case "BracketLeft", "Digit3":
		return 0x1b, true
	case "Backslash", "Digit4":
		return 0x1c, true
	case "BracketRight", "Digit5":
		return 0x1d, true
	case "Digit6":
		return 0x1e, true
	case "Slash", "Minus", "Digit7":
		return 0x1f, true
	case "Space", "Digit2":
		return 0x00, true
	case "Backspace", "Digit8":
		return 0x7f, true
	}
	return 0, false
}

// xtermModifier is the modifier parameter minus one used in CSI 1;<m> sequences.
func xtermModifier(m keys.Modifier) int {
	n := 0
	if m&keys.ModShift != 0 {
		n |= 1
	}
	if m&keys.ModAlt != 0 {
		n |= 2
	}
	if m&keys.ModCtrl != 0 {
		n |= 4
	}
	if m&keys.ModMeta != 0 {
		n |= 8
	}
	return n
}
