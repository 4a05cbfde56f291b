package terminal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/loop"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/dock/internal/testutil"
)

const testTab = id.TabID("tab_t1")

type harness struct {
	sched    *loop.Manual
	counter  *releases
	host     *fakeHost
	theme    *fakeTheme
	body     *layout.Element
	pool     *Pool
	ch       *trackedChannel
	renderer *fakeRenderer
	fitter   *fakeFitter
	links    *fakeLinks
	clip     *fakeClipboard

	factoryCalls int
	rendererOpts RendererOptions

	session *Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		sched:   loop.NewManual(),
		counter: &releases{},
		body:    layout.NewElement("body"),
		links:   &fakeLinks{},
		clip:    &fakeClipboard{},
		fitter:  &fakeFitter{cols: 100, rows: 30, ok: true},
	}
	h.host = &fakeHost{counter: h.counter, selected: testTab, open: true}
	h.theme = &fakeTheme{counter: h.counter, colors: map[string]string{
		"terminalForeground": "#fff",
		"primary":            "#3d90ce",
	}}
	h.pool = NewPool(h.body)
	h.renderer = newFakeRenderer(h.counter)
	h.ch = &trackedChannel{MockChannel: testutil.NewMockChannel(), counter: h.counter}
	h.ch.On("SendSize", mock.Anything, mock.Anything).Return(nil).Maybe()

	deps := Deps{
		Host:      h.host,
		Theme:     h.theme,
		Pool:      h.pool,
		Scheduler: h.sched,
		NewRenderer: func(opts RendererOptions) (Renderer, Fitter) {
			h.factoryCalls++
			h.rendererOpts = opts
			return h.renderer, h.fitter
		},
		Links:     h.links,
		Clipboard: h.clip,
	}
	h.session = NewSession(testTab, h.ch, deps, DefaultOptions())
	return h
}

func (h *harness) initialized(t *testing.T) *harness {
	t.Helper()
	require.NoError(t, h.session.Init())
	return h
}

func TestInitRegistersSubscriptions(t *testing.T) {
	h := newHarness(t).initialized(t)

	assert.Equal(t, 6, h.counter.registered)
	assert.Equal(t, 6, h.session.Subscriptions())
	assert.Equal(t, 2, h.ch.Listeners())

	assert.True(t, h.pool.Contains(h.renderer.Element()))
	assert.NotNil(t, h.renderer.keyHandler)
	assert.Len(t, h.renderer.links, 1)

	assert.Equal(t, RendererOptions{
		CursorStyle: "bar",
		CursorBlink: true,
		FontSize:    13,
		FontFamily:  "RobotoMono",
		Scrollback:  1000,
	}, h.rendererOpts)

	require.Len(t, h.renderer.palettes, 1)
	assert.Equal(t, map[string]string{"foreground": "#fff"}, h.renderer.palettes[0])
}

func TestInitIsIdempotent(t *testing.T) {
	h := newHarness(t).initialized(t)
	require.NoError(t, h.session.Init())

	assert.Equal(t, 1, h.factoryCalls)
	assert.Equal(t, 6, h.counter.registered)
	assert.Len(t, h.renderer.palettes, 1)
}

func TestInitWithoutFactory(t *testing.T) {
	s := NewSession(testTab, testutil.NewMockChannel(), Deps{Scheduler: loop.NewManual(), Pool: NewPool(nil)}, DefaultOptions())
	assert.ErrorIs(t, s.Init(), ErrNoRenderer)
}

func TestDestroyReleasesEverySubscriptionOnce(t *testing.T) {
	h := newHarness(t).initialized(t)

	h.session.Destroy()
	assert.Equal(t, h.counter.registered, h.counter.released)
	assert.Equal(t, 0, h.session.Subscriptions())
	assert.Equal(t, 1, h.ch.Removed())
	assert.Equal(t, 0, h.ch.Listeners())
	assert.Equal(t, 1, h.renderer.disposed)
	assert.Equal(t, 1, h.fitter.disposed)
	assert.True(t, h.session.Destroyed())

	h.session.Destroy()
	assert.Equal(t, 6, h.counter.released)
	assert.Equal(t, 1, h.ch.Removed())
	assert.Equal(t, 1, h.renderer.disposed)
	assert.Equal(t, 1, h.fitter.disposed)
}

func TestDestroyBeforeInit(t *testing.T) {
	h := newHarness(t)
	h.session.Destroy()

	assert.Equal(t, 0, h.counter.released)
	assert.Equal(t, 0, h.renderer.disposed)
	assert.ErrorIs(t, h.session.Init(), ErrSessionDestroyed)
}

func TestOperationsAfterDestroy(t *testing.T) {
	h := newHarness(t).initialized(t)
	h.session.Destroy()

	container := layout.NewElement("container")
	assert.ErrorIs(t, h.session.Init(), ErrSessionDestroyed)
	assert.ErrorIs(t, h.session.AttachTo(container), ErrSessionDestroyed)

	fits := h.fitter.fits
	h.session.Detach()
	h.session.Fit()
	h.session.Focus()
	h.sched.Advance(time.Second)

	assert.Equal(t, fits, h.fitter.fits)
	assert.Equal(t, 0, h.renderer.focused)
	assert.Empty(t, container.Children())
	h.ch.AssertNotCalled(t, "SendSize", mock.Anything, mock.Anything)
}

func TestAttachToActivates(t *testing.T) {
	h := newHarness(t)
	container := layout.NewElement("container")

	require.NoError(t, h.session.AttachTo(container))

	assert.Same(t, container, h.renderer.Element().Parent())
	assert.Equal(t, 1, h.fitter.fits)
	h.ch.AssertCalled(t, "SendSize", 100, 30)
	assert.Equal(t, []int{0}, h.renderer.scrollSet)

	h.sched.Advance(DefaultFocusDelay - time.Millisecond)
	assert.Equal(t, 0, h.renderer.focused)
	h.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, h.renderer.focused)
}

func TestFocusTimerIgnoredAfterDestroy(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.session.AttachTo(layout.NewElement("container")))

	h.session.Destroy()
	h.sched.Advance(time.Second)
	assert.Equal(t, 0, h.renderer.focused)
	assert.Equal(t, 0, h.sched.Pending())
}

func TestDetachParksRenderer(t *testing.T) {
	h := newHarness(t)

	// never attached
	h.session.Detach()
	require.NoError(t, h.session.Init())
	h.session.Detach()
	assert.True(t, h.pool.Contains(h.renderer.Element()))

	container := layout.NewElement("container")
	require.NoError(t, h.session.AttachTo(container))
	h.session.Detach()

	assert.True(t, h.pool.Contains(h.renderer.Element()))
	assert.Empty(t, container.Children())
	assert.Equal(t, 6, h.session.Subscriptions())
	assert.Equal(t, 0, h.counter.released)
}

func TestScrollPositionSurvivesDetach(t *testing.T) {
	h := newHarness(t)
	a := layout.NewElement("a")
	b := layout.NewElement("b")

	for i, pos := range []int{42, 7, 0, 120} {
		container := a
		if i%2 == 1 {
			container = b
		}
		require.NoError(t, h.session.AttachTo(container))
		h.renderer.userScroll(pos)
		assert.Equal(t, pos, h.session.ScrollPosition())

		h.session.Detach()
		h.renderer.scrollTop = 0 // parking resets the viewport

		require.NoError(t, h.session.AttachTo(container))
		assert.Equal(t, pos, h.renderer.scrollSet[len(h.renderer.scrollSet)-1])
		h.session.Detach()
	}
}

func TestFitNotifiesOnlyOnChange(t *testing.T) {
	h := newHarness(t).initialized(t)

	h.session.Fit()
	h.session.Fit()
	h.ch.AssertNumberOfCalls(t, "SendSize", 1)

	h.fitter.cols = 120
	h.session.Fit()
	h.ch.AssertNumberOfCalls(t, "SendSize", 2)
	h.ch.AssertCalled(t, "SendSize", 120, 30)

	cols, rows := h.session.Size()
	assert.Equal(t, 120, cols)
	assert.Equal(t, 30, rows)

	h.fitter.ok = false
	h.fitter.cols = 10
	h.session.Fit()
	h.ch.AssertNumberOfCalls(t, "SendSize", 2)
}

func TestFitBeforeInit(t *testing.T) {
	h := newHarness(t)
	h.session.Fit()
	assert.Equal(t, 0, h.fitter.fits)
}

func TestResizeSignalsCoalesce(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.session.AttachTo(layout.NewElement("container")))
	h.ch.AssertNumberOfCalls(t, "SendSize", 1)
	fits := h.fitter.fits

	for i := 0; i < 5; i++ {
		h.fitter.cols = 90 + i
		h.host.resize()
		h.sched.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, fits, h.fitter.fits, "no fit while signals keep arriving")

	h.sched.Advance(150 * time.Millisecond)
	assert.Equal(t, fits+1, h.fitter.fits)
	h.ch.AssertCalled(t, "SendSize", 94, 30)

	h.sched.Advance(time.Second)
	assert.Equal(t, fits+1, h.fitter.fits)
}

func TestResizeIgnoredWhenInactive(t *testing.T) {
	h := newHarness(t).initialized(t)

	h.host.open = false
	h.host.resize()
	assert.False(t, h.session.Resize().Pending())

	h.host.open = true
	h.host.selected = "tab_other"
	h.host.resize()
	assert.False(t, h.session.Resize().Pending())

	h.sched.Advance(time.Second)
	assert.Equal(t, 0, h.fitter.fits)
}

func TestDestroyCancelsPendingFit(t *testing.T) {
	h := newHarness(t).initialized(t)

	h.host.resize()
	require.True(t, h.session.Resize().Pending())

	h.session.Destroy()
	assert.False(t, h.session.Resize().Pending())

	h.sched.Advance(time.Second)
	assert.Equal(t, 0, h.fitter.fits)
}

func TestInputDroppedUntilReady(t *testing.T) {
	h := newHarness(t).initialized(t)
	h.ch.On("IsReady").Return(false).Twice()
	h.ch.On("IsReady").Return(true)
	h.ch.On("SendCommand", mock.Anything).Return(nil)

	h.renderer.input.Emit("l")
	h.renderer.input.Emit("s")
	h.ch.AssertNotCalled(t, "SendCommand", mock.Anything)

	h.renderer.input.Emit("\r")
	h.ch.AssertCalled(t, "SendCommand", "\r")
	h.ch.AssertNumberOfCalls(t, "SendCommand", 1)
}

func TestReadyClearsStatusThenDataFlows(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.session.AttachTo(layout.NewElement("C")))

	h.ch.EmitData("Connecting to terminal…")
	h.ch.EmitReady()
	h.ch.EmitReady()
	h.ch.EmitData("hello")

	assert.Equal(t, []string{"write:Connecting to terminal…", "clear", "write:hello"}, h.renderer.ops)

	var afterClear []string
	for i, op := range h.renderer.ops {
		if op == "clear" {
			afterClear = h.renderer.ops[i+1:]
		}
	}
	assert.Equal(t, []string{"write:hello"}, afterClear)
}

func TestInboundDataKeepsOrder(t *testing.T) {
	h := newHarness(t).initialized(t)
	chunks := []string{"a", "b", "\x1b[31m", "c", "", "d"}
	for _, c := range chunks {
		h.ch.EmitData(c)
	}
	assert.Equal(t, chunks, h.renderer.writes())
}

func TestDataIgnoredAfterDestroy(t *testing.T) {
	h := newHarness(t).initialized(t)
	bridge := h.session.bridge
	h.session.Destroy()

	bridge.Inbound("late")
	bridge.Ready()
	bridge.Outbound("x")
	assert.Empty(t, h.renderer.ops)
	h.ch.AssertNotCalled(t, "IsReady")
}

func TestThemeChangeReappliesPalette(t *testing.T) {
	h := newHarness(t).initialized(t)

	h.theme.set(map[string]string{"terminalBrightBlack": "#000", "terminal": "#123"})
	require.Len(t, h.renderer.palettes, 2)
	assert.Equal(t, map[string]string{"brightBlack": "#000"}, h.renderer.palettes[1])

	h.session.Destroy()
	h.theme.set(map[string]string{"terminalRed": "#f00"})
	assert.Len(t, h.renderer.palettes, 2)
}

func TestCopyChordWithSelectionIsConsumed(t *testing.T) {
	h := newHarness(t).initialized(t)
	h.renderer.selection = "secret"

	ev := keys.NewEvent("KeyC", "c", keys.ModCtrl)
	assert.False(t, h.renderer.press(&ev))
	assert.Empty(t, h.host.keys)
	assert.Equal(t, []string{"secret"}, h.clip.text)
}

func TestCopyChordWithoutSelectionIsForwarded(t *testing.T) {
	h := newHarness(t).initialized(t)

	ev := keys.NewEvent("KeyC", "c", keys.ModCtrl)
	assert.True(t, h.renderer.press(&ev))
	require.Len(t, h.host.keys, 1)
	assert.Equal(t, "KeyC", h.host.keys[0].Code)
	assert.Empty(t, h.clip.text)
}

func TestCloseTabChordIsSuppressed(t *testing.T) {
	for _, selection := range []string{"", "text"} {
		h := newHarness(t).initialized(t)
		h.renderer.selection = selection

		ev := keys.NewEvent("KeyW", "w", keys.ModCtrl)
		assert.True(t, h.renderer.press(&ev))
		assert.True(t, ev.DefaultPrevented())
		assert.Empty(t, h.host.keys)
	}
}

func TestOtherKeysForwarded(t *testing.T) {
	h := newHarness(t).initialized(t)

	ev := keys.NewEvent("Escape", "Escape", keys.ModShift)
	assert.True(t, h.renderer.press(&ev))
	require.Len(t, h.host.keys, 1)
	assert.False(t, h.host.keys[0].DefaultPrevented())

	prevented := keys.NewEvent("KeyA", "a", keys.ModNone)
	prevented.PreventDefault()
	assert.True(t, h.renderer.press(&prevented))
	assert.Len(t, h.host.keys, 1)
}

func TestKeysIgnoredAfterDestroy(t *testing.T) {
	h := newHarness(t).initialized(t)
	handler := h.renderer.keyHandler
	h.session.Destroy()

	ev := keys.NewEvent("KeyA", "a", keys.ModNone)
	assert.False(t, handler(&ev))
	assert.Empty(t, h.host.keys)
}

func TestLinks(t *testing.T) {
	h := newHarness(t).initialized(t)
	h.renderer.lines[3] = "docs at https://k8slens.dev/docs now"

	l, ok := h.session.LinkAt(3, 10)
	require.True(t, ok)
	assert.Equal(t, "https://k8slens.dev/docs", l.URI)

	assert.False(t, h.session.OpenLinkAt(3, 0))
	assert.True(t, h.session.OpenLinkAt(3, 8))

	h.renderer.links[0]("http://example.com")
	assert.Equal(t, []string{"https://k8slens.dev/docs", "http://example.com"}, h.links.opened)

	h.session.Destroy()
	assert.False(t, h.session.OpenLinkAt(3, 8))
	assert.Len(t, h.links.opened, 2)
}

func TestOptionsFromConfigRejectsBadChord(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, DefaultKeyBindings(), opts.Keys)

	_, err := ParseKeyBindings("hyper+c", "ctrl+w")
	assert.Error(t, err)
}
