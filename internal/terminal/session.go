package terminal

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/config"
	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/loop"
	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// DefaultFocusDelay is how long after attaching a session takes focus.
const DefaultFocusDelay = 250 * time.Millisecond

// Options configure sessions.
type Options struct {
	Renderer       RendererOptions
	ResizeDebounce time.Duration
	FocusDelay     time.Duration
	Keys           KeyBindings
}

// DefaultOptions returns the standard dock terminal configuration.
func DefaultOptions() Options {
	return Options{
		Renderer: RendererOptions{
			CursorStyle: "bar",
			CursorBlink: true,
			FontSize:    13,
			FontFamily:  "RobotoMono",
			Scrollback:  1000,
		},
		ResizeDebounce: DefaultResizeDebounce,
		FocusDelay:     DefaultFocusDelay,
		Keys:           DefaultKeyBindings(),
	}
}

// OptionsFromConfig builds Options from the terminal configuration.
func OptionsFromConfig(cfg config.TerminalConfig) (Options, error) {
	bindings, err := ParseKeyBindings(cfg.CopyKey, cfg.CloseTabKey)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Renderer: RendererOptions{
			CursorStyle: cfg.CursorStyle,
			CursorBlink: cfg.CursorBlink,
			FontSize:    cfg.FontSize,
			FontFamily:  cfg.FontFamily,
			Scrollback:  cfg.Scrollback,
		},
		ResizeDebounce: cfg.ResizeDebounce,
		FocusDelay:     cfg.FocusDelay,
		Keys:           bindings,
	}, nil
}

// Deps are the collaborators shared by every session of a dock.
type Deps struct {
	Host        Host
	Theme       ThemeSource
	Pool        *Pool
	Scheduler   loop.Scheduler
	NewRenderer RendererFactory
	// Links and Clipboard are optional.
	Links     LinkOpener
	Clipboard Clipboard
	Log       *logging.Logger
	Metrics   *monitoring.Metrics
}

// Session is the terminal of one dock tab.
type Session struct {
	tabID   id.TabID
	channel CommandChannel
	deps    Deps
	opts    Options
	log     *logging.Logger

	renderer Renderer
	fitter   Fitter
	bridge   *Bridge
	resize   *ResizeCoordinator

	subs       []event.Release
	focusTimer loop.Timer
	scrollPos  int
	sentCols   int
	sentRows   int
	destroyed  bool
}

// NewSession creates an uninitialized session for tabID. deps.Scheduler
// and deps.NewRenderer are required.
func NewSession(tabID id.TabID, ch CommandChannel, deps Deps, opts Options) *Session {
	if deps.Log == nil {
		deps.Log = logging.NewNop()
	}
	if deps.Theme == nil {
		deps.Theme = noTheme{}
	}
	if deps.Pool == nil {
		deps.Pool = EnsurePool(nil)
	}

	s := &Session{
		tabID:   tabID,
		channel: ch,
		deps:    deps,
		opts:    opts,
		log:     deps.Log.Named("terminal").With(zap.String("tab", tabID.String())),
	}
	s.resize = NewResizeCoordinator(deps.Scheduler, opts.ResizeDebounce, s.Active, s.alive, s.Fit)
	return s
}

// TabID returns the tab this session belongs to.
func (s *Session) TabID() id.TabID { return s.tabID }

// Renderer returns the renderer, or nil before Init.
func (s *Session) Renderer() Renderer { return s.renderer }

// ScrollPosition returns the remembered viewport position.
func (s *Session) ScrollPosition() int { return s.scrollPos }

// Subscriptions returns the number of registrations held.
func (s *Session) Subscriptions() int { return len(s.subs) }

// Destroyed reports whether Destroy was called.
func (s *Session) Destroyed() bool { return s.destroyed }

// Size returns the last size sent to the channel.
func (s *Session) Size() (cols, rows int) { return s.sentCols, s.sentRows }

// Resize returns the session's resize coordinator.
func (s *Session) Resize() *ResizeCoordinator { return s.resize }

// Active reports whether the session's tab is selected in an open dock.
func (s *Session) Active() bool {
	h := s.deps.Host
	return h != nil && h.IsOpen() && h.SelectedTabID() == s.tabID
}

func (s *Session) alive() bool { return !s.destroyed }

// Init creates the renderer inside the pool and wires it to the channel,
// the dock and the theme. Calling Init again has no effect.
func (s *Session) Init() error {
	if s.destroyed {
		return ErrSessionDestroyed
	}
	if s.renderer != nil {
		return nil
	}
	if s.deps.NewRenderer == nil {
		return ErrNoRenderer
	}

	r, f := s.deps.NewRenderer(s.opts.Renderer)
	s.renderer, s.fitter = r, f
	r.Open(s.deps.Pool.Element())
	r.AttachCustomKeyEventHandler(s.handleKey)
	r.RegisterLinkMatcher(LinkPattern, s.HandleLink)

	s.bridge = NewBridge(s.channel, r, s.alive, s.log, s.deps.Metrics)

	var onResize event.Release = event.Noop
	if s.deps.Host != nil {
		onResize = s.deps.Host.OnResize(s.resize.Signal)
	}
	s.subs = append(s.subs,
		onResize,
		r.OnInput(s.bridge.Outbound),
		s.deps.Theme.OnChange(s.applyTheme),
		r.OnScroll(s.trackScroll),
		s.channel.OnReady(s.bridge.Ready),
		s.channel.OnData(s.bridge.Inbound),
	)
	s.applyTheme(s.deps.Theme.ActiveColors())

	s.deps.Metrics.SessionOpened()
	s.log.Debug("session initialized")
	return nil
}

// AttachTo moves the renderer into container and activates it: an
// immediate fit, focus after the focus delay and the remembered scroll
// position.
func (s *Session) AttachTo(container *layout.Element) error {
	if s.destroyed {
		return ErrSessionDestroyed
	}
	if err := s.Init(); err != nil {
		return err
	}
	if err := container.AppendChild(s.renderer.Element()); err != nil {
		return err
	}

	s.Fit()
	s.scheduleFocus()
	s.renderer.SetScrollTop(s.scrollPos)
	return nil
}

// Detach parks the renderer in the pool. State and subscriptions survive.
func (s *Session) Detach() {
	if s.destroyed || s.renderer == nil {
		return
	}
	if err := s.deps.Pool.Adopt(s.renderer.Element()); err != nil {
		s.log.Warn("detach", zap.Error(err))
	}
}

// Destroy releases every subscription, disposes the renderer and marks
// the session destroyed. Further calls do nothing.
func (s *Session) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	s.resize.Cancel()
	if s.focusTimer != nil {
		s.focusTimer.Stop()
		s.focusTimer = nil
	}

	for _, release := range s.subs {
		release()
	}
	s.subs = nil
	s.channel.RemoveAllListeners()

	if s.fitter != nil {
		s.fitter.Dispose()
	}
	if s.renderer != nil {
		s.renderer.Dispose()
		s.deps.Metrics.SessionClosed()
	}
	s.log.Debug("session destroyed")
}

// Fit sizes the renderer to its container and tells the channel when the
// grid changed.
func (s *Session) Fit() {
	if s.destroyed || s.fitter == nil {
		return
	}
	cols, rows, ok := s.fitter.Fit()
	if !ok {
		return
	}

	changed := cols != s.sentCols || rows != s.sentRows
	s.deps.Metrics.RecordFit(changed)
	if !changed {
		return
	}
	if err := s.channel.SendSize(cols, rows); err != nil {
		s.log.Debug("send size failed", zap.Error(err))
		return
	}
	s.sentCols, s.sentRows = cols, rows
}

// Focus gives the renderer keyboard focus.
func (s *Session) Focus() {
	if s.destroyed || s.renderer == nil {
		return
	}
	s.renderer.Focus()
}

func (s *Session) scheduleFocus() {
	if s.focusTimer != nil {
		s.focusTimer.Stop()
	}
	delay := s.opts.FocusDelay
	if delay <= 0 {
		delay = DefaultFocusDelay
	}
	s.focusTimer = s.deps.Scheduler.AfterFunc(delay, func() {
		s.focusTimer = nil
		if s.alive() {
			s.Focus()
		}
	})
}

func (s *Session) trackScroll(pos int) {
	if s.alive() {
		s.scrollPos = pos
	}
}

func (s *Session) applyTheme(colors map[string]string) {
	if s.alive() && s.renderer != nil {
		s.renderer.SetPalette(PaletteFromColors(colors))
	}
}

// handleKey runs ahead of the renderer's key processing.
func (s *Session) handleKey(ev *keys.Event) bool {
	if !s.alive() {
		return false
	}

	d := Decide(*ev, s.renderer.HasSelection(), s.opts.Keys)
	if d.PreventDefault {
		ev.PreventDefault()
	}
	if d.ConsumeLocally && s.deps.Clipboard != nil {
		s.deps.Clipboard.WriteText(s.renderer.SelectedText())
	}
	if d.ForwardToHost && s.deps.Host != nil {
		s.deps.Host.DispatchKey(ev.Redispatch())
	}
	return d.PassToRenderer
}

// HandleLink opens uri through the link opener.
func (s *Session) HandleLink(uri string) {
	if !s.alive() || s.deps.Links == nil {
		return
	}
	s.deps.Links.OpenLink(uri)
}

// LinkAt returns the link under a screen cell.
func (s *Session) LinkAt(row, col int) (Link, bool) {
	if s.destroyed || s.renderer == nil {
		return Link{}, false
	}
	return LinkAt(s.renderer.LineContent(row), col)
}

// OpenLinkAt opens the link under a screen cell and reports whether there was one.
func (s *Session) OpenLinkAt(row, col int) bool {
	l, ok := s.LinkAt(row, col)
	if ok {
		s.HandleLink(l.URI)
	}
	return ok
}

type noTheme struct{}

func (noTheme) ActiveColors() map[string]string { return nil }

func (noTheme) OnChange(func(map[string]string)) event.Release { return event.Noop }
