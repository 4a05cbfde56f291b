package terminal

import (
	"regexp"
	"strings"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/dock/internal/testutil"
)

// releases counts registrations and release calls across fakes.
type releases struct {
	registered int
	released   int
}

func (c *releases) track(r event.Release) event.Release {
	c.registered++
	return func() {
		c.released++
		r()
	}
}

type fakeRenderer struct {
	counter *releases

	el        *layout.Element
	ops       []string
	focused   int
	disposed  int
	scrollTop int
	scrollSet []int
	selection string
	palettes  []map[string]string
	lines     map[int]string

	keyHandler func(*keys.Event) bool
	links      []func(string)

	input  event.Emitter[string]
	scroll event.Emitter[int]
}

func newFakeRenderer(counter *releases) *fakeRenderer {
	return &fakeRenderer{
		counter: counter,
		el:      layout.NewElement("xterm"),
		lines:   make(map[int]string),
	}
}

func (r *fakeRenderer) Open(container *layout.Element) { _ = container.AppendChild(r.el) }
func (r *fakeRenderer) Element() *layout.Element       { return r.el }
func (r *fakeRenderer) Write(chunk string)             { r.ops = append(r.ops, "write:"+chunk) }
func (r *fakeRenderer) Clear()                         { r.ops = append(r.ops, "clear") }
func (r *fakeRenderer) Focus()                         { r.focused++ }
func (r *fakeRenderer) Dispose()                       { r.disposed++; r.el.Remove() }

func (r *fakeRenderer) OnInput(fn func(string)) event.Release {
	return r.counter.track(r.input.On(fn))
}

func (r *fakeRenderer) OnScroll(fn func(int)) event.Release {
	return r.counter.track(r.scroll.On(fn))
}

func (r *fakeRenderer) ScrollTop() int { return r.scrollTop }

func (r *fakeRenderer) SetScrollTop(pos int) {
	r.scrollSet = append(r.scrollSet, pos)
	r.scrollTop = pos
}

func (r *fakeRenderer) HasSelection() bool   { return r.selection != "" }
func (r *fakeRenderer) SelectedText() string { return r.selection }

func (r *fakeRenderer) SetPalette(p map[string]string) { r.palettes = append(r.palettes, p) }

func (r *fakeRenderer) AttachCustomKeyEventHandler(fn func(*keys.Event) bool) { r.keyHandler = fn }

func (r *fakeRenderer) RegisterLinkMatcher(_ *regexp.Regexp, fn func(string)) {
	r.links = append(r.links, fn)
}

func (r *fakeRenderer) LineContent(row int) string { return r.lines[row] }
func (r *fakeRenderer) Cols() int                  { return 80 }
func (r *fakeRenderer) Rows() int                  { return 24 }

// userScroll simulates the user moving the viewport.
func (r *fakeRenderer) userScroll(pos int) {
	r.scrollTop = pos
	r.scroll.Emit(pos)
}

// press runs a key through the custom handler and reports whether the
// renderer would process it.
func (r *fakeRenderer) press(ev *keys.Event) bool {
	if r.keyHandler == nil {
		return true
	}
	return r.keyHandler(ev)
}

func (r *fakeRenderer) writes() []string {
	var out []string
	for _, op := range r.ops {
		if chunk, ok := strings.CutPrefix(op, "write:"); ok {
			out = append(out, chunk)
		}
	}
	return out
}

type fakeFitter struct {
	cols, rows int
	ok         bool
	fits       int
	disposed   int
}

func (f *fakeFitter) Fit() (int, int, bool) {
	f.fits++
	if !f.ok {
		return 0, 0, false
	}
	return f.cols, f.rows, true
}

func (f *fakeFitter) Dispose() { f.disposed++ }

type fakeHost struct {
	counter  *releases
	selected id.TabID
	open     bool
	resized  event.Emitter[struct{}]
	keys     []keys.Event
}

func (h *fakeHost) SelectedTabID() id.TabID { return h.selected }
func (h *fakeHost) IsOpen() bool            { return h.open }

func (h *fakeHost) OnResize(fn func()) event.Release {
	return h.counter.track(h.resized.On(func(struct{}) { fn() }))
}

func (h *fakeHost) DispatchKey(ev keys.Event) { h.keys = append(h.keys, ev) }

func (h *fakeHost) resize() { h.resized.Emit(struct{}{}) }

type fakeTheme struct {
	counter *releases
	colors  map[string]string
	changed event.Emitter[map[string]string]
}

func (t *fakeTheme) ActiveColors() map[string]string { return t.colors }

func (t *fakeTheme) OnChange(fn func(map[string]string)) event.Release {
	return t.counter.track(t.changed.On(fn))
}

func (t *fakeTheme) set(colors map[string]string) {
	t.colors = colors
	t.changed.Emit(colors)
}

// trackedChannel counts channel registrations on top of MockChannel.
type trackedChannel struct {
	*testutil.MockChannel
	counter *releases
}

func (c *trackedChannel) OnData(fn func(string)) event.Release {
	return c.counter.track(c.MockChannel.OnData(fn))
}

func (c *trackedChannel) OnReady(fn func()) event.Release {
	return c.counter.track(c.MockChannel.OnReady(fn))
}

type fakeLinks struct{ opened []string }

func (l *fakeLinks) OpenLink(uri string) { l.opened = append(l.opened, uri) }

type fakeClipboard struct{ text []string }

func (c *fakeClipboard) WriteText(text string) { c.text = append(c.text, text) }
