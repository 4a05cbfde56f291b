package terminal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const palettePrefix = "terminal"

// PaletteFromColors extracts renderer colors from a theme's color set.
// Keys of the form terminal<Name> with an upper-case first letter of Name
// are kept under Name with its first letter lower-cased:
// terminalBrightBlack becomes brightBlack. Other keys are dropped.
func PaletteFromColors(colors map[string]string) map[string]string {
	palette := make(map[string]string)
	for key, value := range colors {
		name, ok := strings.CutPrefix(key, palettePrefix)
		if !ok || name == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(name)
		if !unicode.IsUpper(first) {
			continue
		}
		palette[string(unicode.ToLower(first))+name[size:]] = value
	}
	return palette
}
