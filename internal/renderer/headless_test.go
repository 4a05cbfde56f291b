package renderer

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/terminal"
)

func newTestRenderer() *Headless {
	return NewHeadless(nil, Options{CursorStyle: "bar", CursorBlink: true, FontSize: 13, Scrollback: 100})
}

var _ terminal.Renderer = (*Headless)(nil)
var _ terminal.Fitter = (*Fitter)(nil)

func TestWriteAndClear(t *testing.T) {
	r := newTestRenderer()
	r.Write("hello\r\nworld")

	assert.Equal(t, "hello", r.LineContent(0))
	assert.Equal(t, "world", r.LineContent(1))

	r.Clear()
	assert.Equal(t, "", r.LineContent(0))
	assert.Equal(t, "", r.String())
	assert.Equal(t, 0, r.Terminal().ScrollbackLen())
}

func TestOpenMovesElement(t *testing.T) {
	r := newTestRenderer()
	a := layout.NewElement("a")
	b := layout.NewElement("b")

	r.Open(a)
	assert.Same(t, a, r.Element().Parent())

	require.NoError(t, b.AppendChild(r.Element()))
	assert.Same(t, b, r.Element().Parent())
	assert.Empty(t, a.Children())
}

func TestHandleKeyEncodes(t *testing.T) {
	r := newTestRenderer()
	var got []string
	r.OnInput(func(data string) { got = append(got, data) })

	assert.True(t, r.HandleKey(keys.NewEvent("KeyA", "a", keys.ModNone)))
	r.HandleKey(keys.NewEvent("KeyC", "c", keys.ModCtrl))
	r.HandleKey(keys.NewEvent("Enter", "Enter", keys.ModNone))
	r.HandleKey(keys.NewEvent("ArrowUp", "ArrowUp", keys.ModNone))
	r.HandleKey(keys.NewEvent("ArrowLeft", "ArrowLeft", keys.ModCtrl))
	r.HandleKey(keys.NewEvent("KeyB", "b", keys.ModAlt))

	assert.Equal(t, []string{"a", "\x03", "\r", "\x1b[A", "\x1b[1;5D", "\x1bb"}, got)
}

func TestHandleKeyRespectsCustomHandler(t *testing.T) {
	r := newTestRenderer()
	var got []string
	r.OnInput(func(data string) { got = append(got, data) })

	var seen []string
	r.AttachCustomKeyEventHandler(func(ev *keys.Event) bool {
		seen = append(seen, ev.Code)
		return ev.Code != "KeyX"
	})

	assert.False(t, r.HandleKey(keys.NewEvent("KeyX", "x", keys.ModNone)))
	assert.True(t, r.HandleKey(keys.NewEvent("KeyY", "y", keys.ModNone)))

	assert.Equal(t, []string{"KeyX", "KeyY"}, seen)
	assert.Equal(t, []string{"y"}, got)
}

func TestEmulatorResponsesBecomeInput(t *testing.T) {
	r := newTestRenderer()
	var got []string
	r.OnInput(func(data string) { got = append(got, data) })

	r.Write("\x1b[6n")
	assert.Equal(t, []string{"\x1b[1;1R"}, got)
}

func TestPaste(t *testing.T) {
	r := newTestRenderer()
	var got []string
	r.OnInput(func(data string) { got = append(got, data) })

	r.Paste("ls\nexit\n")
	r.Write("\x1b[?2004h")
	r.Paste("x")

	assert.Equal(t, []string{"ls\rexit\r", "\x1b[200~x\x1b[201~"}, got)
}

func TestSelection(t *testing.T) {
	r := newTestRenderer()
	r.Write("Hello World")
	assert.False(t, r.HasSelection())

	r.Select(0, 0, 0, 4)
	assert.True(t, r.HasSelection())
	assert.Equal(t, "Hello", r.SelectedText())

	r.ClearSelection()
	assert.False(t, r.HasSelection())
}

func TestScrollFollowsOutput(t *testing.T) {
	r := newTestRenderer()
	r.Resize(20, 3)

	var positions []int
	r.OnScroll(func(pos int) { positions = append(positions, pos) })

	for i := 0; i < 6; i++ {
		r.Write("line\r\n")
	}
	sb := r.Terminal().ScrollbackLen()
	require.Positive(t, sb)
	assert.Equal(t, sb, r.ScrollTop())
	require.NotEmpty(t, positions)
	assert.Equal(t, sb, positions[len(positions)-1])

	r.SetScrollTop(0)
	assert.Equal(t, 0, r.ScrollTop())

	// scrolled away: new output does not move the viewport
	r.Write("more\r\n")
	assert.Equal(t, 0, r.ScrollTop())

	r.SetScrollTop(1 << 20)
	assert.Equal(t, r.Terminal().ScrollbackLen(), r.ScrollTop())
	assert.Len(t, r.ViewportLines(), 3)
}

func TestSetPalette(t *testing.T) {
	r := newTestRenderer()
	r.SetPalette(map[string]string{
		"background":   "#24292e",
		"brightRed":    "#ef2929",
		"selection":    "#ffffff77",
		"cursorAccent": "#000",
		"broken":       "not-a-color",
	})

	p := r.Palette()
	assert.Equal(t, "#24292e", p["background"])
	assert.Equal(t, "#ef2929", p["brightRed"])
	assert.Equal(t, "#ffffff77", p["selection"])
	assert.Equal(t, "#000", p["cursorAccent"])
	assert.NotContains(t, p, "broken")
}

// slotColor asks the emulator for the color of a palette slot, the way an
// application does with OSC 4.
func slotColor(r *Headless, index int) string {
	var reply string
	release := r.OnInput(func(data string) { reply += data })
	defer release()
	r.term.SetDynamicColor(fmt.Sprintf("4;%d", index), index, "\x07")
	return reply
}

func TestSetPaletteReplacesPrevious(t *testing.T) {
	r := newTestRenderer()
	defaultRed := slotColor(r, 1)
	require.NotEmpty(t, defaultRed)

	r.SetPalette(map[string]string{"red": "#ff0000", "green": "#00ff00"})
	assert.Equal(t, "\x1b]4;1;rgb:ff/00/00\x07", slotColor(r, 1))

	r.SetPalette(map[string]string{"green": "#00ff00"})
	assert.Equal(t, map[string]string{"green": "#00ff00"}, r.Palette())
	assert.Equal(t, defaultRed, slotColor(r, 1))

	r.SetPalette(map[string]string{})
	assert.Empty(t, r.Palette())
	assert.Equal(t, "\x1b]4;2;rgb:0d/bc/79\x07", slotColor(r, 2))
}

func TestLinkActivation(t *testing.T) {
	r := newTestRenderer()
	r.Write("see https://example.com/x now")

	var opened []string
	r.RegisterLinkMatcher(regexp.MustCompile(`(?i)https?://[^\s]+`), func(uri string) {
		opened = append(opened, uri)
	})

	assert.False(t, r.ClickAt(0, 1))
	assert.True(t, r.ClickAt(0, 10))
	assert.Equal(t, []string{"https://example.com/x"}, opened)
}

func TestDispose(t *testing.T) {
	r := newTestRenderer()
	parent := layout.NewElement("parent")
	r.Open(parent)

	var got []string
	r.OnInput(func(data string) { got = append(got, data) })
	r.Focus()
	assert.True(t, r.Focused())

	r.Dispose()
	r.Dispose()

	assert.True(t, r.Disposed())
	assert.False(t, r.Focused())
	assert.Nil(t, r.Element().Parent())
	assert.False(t, r.HandleKey(keys.NewEvent("KeyA", "a", keys.ModNone)))
	r.Write("ignored")
	assert.Empty(t, got)
}

func TestCursorSequence(t *testing.T) {
	assert.Equal(t, "\x1b[5 q", cursorSequence("bar", true))
	assert.Equal(t, "\x1b[6 q", cursorSequence("bar", false))
	assert.Equal(t, "\x1b[1 q", cursorSequence("block", true))
	assert.Equal(t, "\x1b[4 q", cursorSequence("underline", false))
}
