// Package theme stores the dock's color themes and notifies listeners when
// the active theme changes.
//
// Built-in themes (dark, light, high-contrast) carry both UI colors and a
// full set of terminal colors named with the "terminal" prefix
// (terminalBackground, terminalBrightBlack, ...). Custom themes can be
// created in code or loaded from YAML, TOML or JSON files.
//
// Example Usage:
//
//	store := theme.NewStore("dark")
//	release := store.OnChange(func(colors map[string]string) { apply(colors) })
//	defer release()
//	store.SetActive("light")
package theme
