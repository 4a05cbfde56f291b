// Package dock implements the dock panel that hosts terminal tabs.
//
// The Store tracks the tab list, the selected tab, whether the panel is
// open and its height. It broadcasts a resize signal whenever the area
// available to the selected tab may have changed (window resize, panel
// opened, height changed, tab selected) and evaluates the dock's global
// hotkeys for key events forwarded by terminals.
package dock
