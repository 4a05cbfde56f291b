package terminal

import (
	"regexp"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// CommandChannel is the remote shell connection of one tab.
type CommandChannel interface {
	IsReady() bool
	SendCommand(data string) error
	SendSize(cols, rows int) error
	OnData(fn func(chunk string)) event.Release
	// OnReady fires at most once.
	OnReady(fn func()) event.Release
	RemoveAllListeners()
}

// Renderer is a terminal emulator view.
type Renderer interface {
	// Open places the renderer's element inside container.
	Open(container *layout.Element)
	Element() *layout.Element
	Write(chunk string)
	// Clear drops the screen contents and scrollback.
	Clear()
	Focus()
	Dispose()

	OnInput(fn func(data string)) event.Release
	OnScroll(fn func(pos int)) event.Release
	ScrollTop() int
	SetScrollTop(pos int)

	HasSelection() bool
	SelectedText() string

	// SetPalette applies colors keyed by renderer color names
	// (background, foreground, brightRed, ...).
	SetPalette(colors map[string]string)

	// AttachCustomKeyEventHandler installs fn ahead of the renderer's own
	// key processing. The renderer processes an event only if fn returns true.
	AttachCustomKeyEventHandler(fn func(ev *keys.Event) bool)
	// RegisterLinkMatcher calls handler with the matched text when the user
	// activates a link matching re.
	RegisterLinkMatcher(re *regexp.Regexp, handler func(uri string))

	LineContent(row int) string
	Cols() int
	Rows() int
}

// Fitter sizes a renderer to its container.
type Fitter interface {
	// Fit resizes the renderer to the container and returns the new grid.
	// ok is false when the container is not laid out.
	Fit() (cols, rows int, ok bool)
	Dispose()
}

// RendererOptions is the visual configuration every session renderer gets.
type RendererOptions struct {
	CursorStyle string
	CursorBlink bool
	FontSize    int
	FontFamily  string
	Scrollback  int
}

// RendererFactory creates a renderer and its fitter.
type RendererFactory func(opts RendererOptions) (Renderer, Fitter)

// ThemeSource provides the active color set and change notifications.
type ThemeSource interface {
	ActiveColors() map[string]string
	OnChange(fn func(colors map[string]string)) event.Release
}

// Host is the dock panel that contains terminal tabs.
type Host interface {
	SelectedTabID() id.TabID
	IsOpen() bool
	// OnResize fires whenever the visible terminal area may have changed.
	OnResize(fn func()) event.Release
	// DispatchKey delivers a key event the terminal did not keep.
	DispatchKey(ev keys.Event)
}

// LinkOpener opens URIs outside the terminal.
type LinkOpener interface {
	OpenLink(uri string)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string)
}
