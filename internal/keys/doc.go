// Package keys models keyboard events as they arrive from the UI surface.
//
// Events carry a physical key code in the DOM KeyboardEvent.code style
// ("KeyC", "Enter", "ArrowUp"), the produced text, modifier flags and a
// default-prevented flag that handlers set to stop enclosing layers from
// acting on the key. Chords describe bindings such as Ctrl+C and can be
// parsed from configuration strings like "ctrl+c".
package keys
