// Package renderer provides the terminal renderer used by dock sessions.
//
// Headless wraps a go-headless-term emulator with the pieces a dock view
// needs on top of VT parsing: a layout element, a scrollable viewport over
// the scrollback, selection, key encoding, link activation and a color
// palette. Fitter sizes the emulator grid to the element's container from
// font-derived cell metrics.
package renderer
