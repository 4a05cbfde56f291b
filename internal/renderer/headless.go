package renderer

import (
	"regexp"
	"strings"
	"sync"

	headlessterm "github.com/danielgatis/go-headless-term"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/terminal"
)

// Element class of renderer views.
const ElementClass = "xterm"

// Options is the renderer configuration.
type Options = terminal.RendererOptions

type linkMatcher struct {
	re      *regexp.Regexp
	handler func(uri string)
}

// Headless is a terminal.Renderer backed by go-headless-term.
type Headless struct {
	log  *logging.Logger
	term *headlessterm.Terminal
	el   *layout.Element
	opts Options

	// mu guards state touched by emulator responses, which arrive while
	// Write is running.
	mu         sync.Mutex
	scrollTop  int
	following  bool
	focused    bool
	disposed   bool
	palette    map[string]string
	keyHandler func(ev *keys.Event) bool
	links      []linkMatcher

	input  event.Emitter[string]
	scroll event.Emitter[int]
}

// NewHeadless creates a renderer with an 80x24 grid.
func NewHeadless(log *logging.Logger, opts Options) *Headless {
	if log == nil {
		log = logging.NewNop()
	}
	h := &Headless{
		log:       log.Named("renderer"),
		el:        layout.NewElement(ElementClass),
		opts:      opts,
		following: true,
		palette:   make(map[string]string),
	}

	termOpts := []headlessterm.Option{
		headlessterm.WithSize(24, 80),
		headlessterm.WithResponse(responseWriter{h}),
	}
	if opts.Scrollback > 0 {
		termOpts = append(termOpts, headlessterm.WithScrollback(headlessterm.NewMemoryScrollback(opts.Scrollback)))
	}
	h.term = headlessterm.New(termOpts...)
	h.term.WriteString(cursorSequence(opts.CursorStyle, opts.CursorBlink))
	return h
}

// responseWriter routes emulator replies (cursor reports, device
// attributes) to the input stream, the way a browser terminal does.
type responseWriter struct{ h *Headless }

func (w responseWriter) Write(p []byte) (int, error) {
	w.h.emitInput(string(p))
	return len(p), nil
}

// cursorSequence returns the DECSCUSR sequence for a cursor style.
func cursorSequence(style string, blink bool) string {
	n := 1
	switch style {
	case "underline":
		n = 3
	case "bar":
		n = 5
	}
	if !blink {
		n++
	}
	return "\x1b[" + string(rune('0'+n)) + " q"
}

// Terminal exposes the underlying emulator.
func (h *Headless) Terminal() *headlessterm.Terminal { return h.term }

// Open places the renderer element inside container.
func (h *Headless) Open(container *layout.Element) {
	if h.isDisposed() || container == nil {
		return
	}
	if err := container.AppendChild(h.el); err != nil {
		h.log.Warn("open renderer", zap.Error(err))
	}
}

// Element returns the renderer's element.
func (h *Headless) Element() *layout.Element { return h.el }

// Write feeds output to the emulator.
func (h *Headless) Write(chunk string) {
	if h.isDisposed() {
		return
	}
	h.term.WriteString(chunk)
	h.follow()
}

// Clear drops the visible screen and the scrollback and homes the cursor.
func (h *Headless) Clear() {
	if h.isDisposed() {
		return
	}
	h.term.WriteString("\x1b[2J\x1b[H")
	h.term.ClearScrollback()
	h.term.ClearSelection()

	h.mu.Lock()
	h.following = true
	h.mu.Unlock()
	h.setScrollTop(0)
}

// Focus marks the renderer as the keyboard target.
func (h *Headless) Focus() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.disposed {
		h.focused = true
	}
}

// Blur drops keyboard focus.
func (h *Headless) Blur() {
	h.mu.Lock()
	h.focused = false
	h.mu.Unlock()
}

// Focused reports whether Focus was called since the last Blur.
func (h *Headless) Focused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// Dispose detaches the element and drops all listeners.
func (h *Headless) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	h.focused = false
	h.keyHandler = nil
	h.links = nil
	h.mu.Unlock()

	h.el.Remove()
	h.input.Clear()
	h.scroll.Clear()
}

// Disposed reports whether Dispose was called.
func (h *Headless) Disposed() bool { return h.isDisposed() }

func (h *Headless) isDisposed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disposed
}

// OnInput registers fn for data typed, pasted or answered by the emulator.
func (h *Headless) OnInput(fn func(data string)) event.Release {
	return h.input.On(fn)
}

// OnScroll registers fn for viewport position changes.
func (h *Headless) OnScroll(fn func(pos int)) event.Release {
	return h.scroll.On(fn)
}

func (h *Headless) emitInput(data string) {
	if data == "" || h.isDisposed() {
		return
	}
	h.input.Emit(data)
}

// ScrollTop returns the first visible line, counted from the oldest
// scrollback line.
func (h *Headless) ScrollTop() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scrollTop
}

// SetScrollTop moves the viewport, clamped to the scrollback.
func (h *Headless) SetScrollTop(pos int) {
	if h.isDisposed() {
		return
	}
	bottom := h.term.ScrollbackLen()
	pos = min(max(pos, 0), bottom)

	h.mu.Lock()
	h.following = pos == bottom
	h.mu.Unlock()
	h.setScrollTop(pos)
}

// ScrollLines moves the viewport by delta lines; negative scrolls up.
func (h *Headless) ScrollLines(delta int) {
	h.SetScrollTop(h.ScrollTop() + delta)
}

// ScrollToBottom shows the live screen.
func (h *Headless) ScrollToBottom() {
	h.SetScrollTop(h.term.ScrollbackLen())
}

// follow keeps the viewport pinned to the live screen unless the user
// scrolled away from it.
func (h *Headless) follow() {
	h.mu.Lock()
	following := h.following
	h.mu.Unlock()
	if following {
		h.setScrollTop(h.term.ScrollbackLen())
	}
}

func (h *Headless) setScrollTop(pos int) {
	h.mu.Lock()
	changed := h.scrollTop != pos
	h.scrollTop = pos
	h.mu.Unlock()

	if changed {
		h.scroll.Emit(pos)
	}
}

// ViewportLines returns the text of the rows currently in view.
func (h *Headless) ViewportLines() []string {
	rows := h.term.Rows()
	top := h.ScrollTop()
	sb := h.term.ScrollbackLen()

	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		line := top + i
		if line < sb {
			out = append(out, cellsText(h.term.ScrollbackLine(line)))
			continue
		}
		out = append(out, h.term.LineContent(line-sb))
	}
	return out
}

func cellsText(cells []headlessterm.Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if c.Char == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Char)
	}
	return strings.TrimRight(b.String(), " ")
}

// HasSelection reports whether text is selected.
func (h *Headless) HasSelection() bool { return h.term.HasSelection() }

// SelectedText returns the selected text.
func (h *Headless) SelectedText() string { return h.term.GetSelectedText() }

// Select selects the screen region between two cells, inclusive.
func (h *Headless) Select(startRow, startCol, endRow, endCol int) {
	h.term.SetSelection(
		headlessterm.Position{Row: startRow, Col: startCol},
		headlessterm.Position{Row: endRow, Col: endCol},
	)
}

// ClearSelection drops the selection.
func (h *Headless) ClearSelection() { h.term.ClearSelection() }

// SetPalette replaces the renderer colors. Slots missing from colors go
// back to the emulator defaults. Unknown names are kept in the palette but
// have no emulator slot; unparsable values are skipped.
func (h *Headless) SetPalette(colors map[string]string) {
	if h.isDisposed() {
		return
	}
	for _, index := range paletteIndex {
		h.term.ResetColor(index)
	}

	palette := make(map[string]string, len(colors))
	for name, value := range colors {
		c, err := parseColor(value)
		if err != nil {
			h.log.Debug("skip palette color", zap.String("name", name), zap.String("value", value))
			continue
		}
		palette[name] = value
		if index, ok := paletteIndex[name]; ok {
			h.term.SetColor(index, c)
		}
	}

	h.mu.Lock()
	h.palette = palette
	h.mu.Unlock()
}

// Palette returns a copy of the applied colors.
func (h *Headless) Palette() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]string, len(h.palette))
	for k, v := range h.palette {
		out[k] = v
	}
	return out
}

// parseColor accepts #rgb, #rrggbb and #rrggbbaa; alpha is ignored.
func parseColor(s string) (colorful.Color, error) {
	if len(s) == 9 && s[0] == '#' {
		s = s[:7]
	}
	return colorful.Hex(s)
}

var paletteIndex = map[string]int{
	"black":         0,
	"red":           1,
	"green":         2,
	"yellow":        3,
	"blue":          4,
	"magenta":       5,
	"cyan":          6,
	"white":         7,
	"brightBlack":   8,
	"brightRed":     9,
	"brightGreen":   10,
	"brightYellow":  11,
	"brightBlue":    12,
	"brightMagenta": 13,
	"brightCyan":    14,
	"brightWhite":   15,
	"foreground":    headlessterm.NamedColorForeground,
	"background":    headlessterm.NamedColorBackground,
	"cursor":        headlessterm.NamedColorCursor,
}

// AttachCustomKeyEventHandler installs fn ahead of key encoding.
func (h *Headless) AttachCustomKeyEventHandler(fn func(ev *keys.Event) bool) {
	h.mu.Lock()
	h.keyHandler = fn
	h.mu.Unlock()
}

// HandleKey delivers a key event to the renderer. It reports whether the
// renderer processed it.
func (h *Headless) HandleKey(ev keys.Event) bool {
	h.mu.Lock()
	handler := h.keyHandler
	disposed := h.disposed
	h.mu.Unlock()
	if disposed {
		return false
	}

	if handler != nil && !handler(&ev) {
		return false
	}
	if ev.Type != keys.KeyDown {
		return true
	}

	data := encodeKey(ev, h.term.HasMode(headlessterm.ModeCursorKeys))
	if data != "" {
		h.ScrollToBottom()
		h.emitInput(data)
	}
	return true
}

// Paste sends text as input, bracketed when the application asked for it.
func (h *Headless) Paste(text string) {
	if text == "" {
		return
	}
	text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\r"), "\n", "\r")
	if h.term.HasMode(headlessterm.ModeBracketedPaste) {
		text = "\x1b[200~" + text + "\x1b[201~"
	}
	h.emitInput(text)
}

// RegisterLinkMatcher adds a link pattern activated through ClickAt.
func (h *Headless) RegisterLinkMatcher(re *regexp.Regexp, handler func(uri string)) {
	if re == nil || handler == nil {
		return
	}
	h.mu.Lock()
	h.links = append(h.links, linkMatcher{re: re, handler: handler})
	h.mu.Unlock()
}

// ClickAt activates the link under a screen cell. It reports whether a
// link was found.
func (h *Headless) ClickAt(row, col int) bool {
	h.mu.Lock()
	matchers := append([]linkMatcher(nil), h.links...)
	h.mu.Unlock()

	line := h.term.LineContent(row)
	for _, m := range matchers {
		for _, loc := range m.re.FindAllStringIndex(line, -1) {
			start := len([]rune(line[:loc[0]]))
			end := start + len([]rune(line[loc[0]:loc[1]]))
			if col >= start && col < end {
				m.handler(line[loc[0]:loc[1]])
				return true
			}
		}
	}
	return false
}

// LineContent returns the text of a screen row.
func (h *Headless) LineContent(row int) string { return h.term.LineContent(row) }

// String returns the visible screen as text.
func (h *Headless) String() string { return h.term.String() }

// Cols returns the grid width.
func (h *Headless) Cols() int { return h.term.Cols() }

// Rows returns the grid height.
func (h *Headless) Rows() int { return h.term.Rows() }

// Resize changes the grid size.
func (h *Headless) Resize(cols, rows int) {
	if h.isDisposed() {
		return
	}
	h.term.Resize(rows, cols)
	h.follow()
}
