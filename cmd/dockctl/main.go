// Command dockctl drives dock terminals without a browser.
//
// It opens one or more terminal tabs against a terminal endpoint, runs the
// full session core on a headless renderer, optionally types a command
// into the first tab and prints the resulting screen.
//
// Usage:
//
//	dockctl -url ws://localhost:8000/api/terminals/ws -exec 'ls -la' -wait 2s
//	dockctl -tabs 3 -theme ./solarized.yaml
//	dockctl -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/channel"
	"github.com/GriffinCanCode/AgentOS/dock/internal/client"
	"github.com/GriffinCanCode/AgentOS/dock/internal/config"
	"github.com/GriffinCanCode/AgentOS/dock/internal/dock"
	"github.com/GriffinCanCode/AgentOS/dock/internal/keys"
	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/loop"
	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
	"github.com/GriffinCanCode/AgentOS/dock/internal/renderer"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/dock/internal/terminal"
	"github.com/GriffinCanCode/AgentOS/dock/internal/theme"
)

const containerClass = "dock-terminal"

func main() {
	cfg := config.LoadOrDefault()

	url := flag.String("url", cfg.Channel.URL, "Terminal endpoint websocket URL")
	tabs := flag.Int("tabs", 1, "Number of terminal tabs to open")
	execCmd := flag.String("exec", "", "Command to type into the first tab")
	wait := flag.Duration("wait", 2*time.Second, "How long to collect output before printing")
	themeArg := flag.String("theme", cfg.Theme.Active, "Theme id or theme file (.yaml, .toml, .json)")
	width := flag.Int("width", 814, "Terminal container width in pixels")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	list := flag.Bool("list", false, "List the endpoint's terminals and exit")
	flag.Parse()

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = *dev
	log, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg.Channel.URL = *url
	if *themeArg != "" {
		cfg.Theme.Active = *themeArg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api, err := newAPIClient(cfg.Channel.URL, log)
	if err != nil {
		log.Error("dockctl failed", zap.Error(err))
		os.Exit(1)
	}
	if err := api.WaitHealthy(ctx); err != nil {
		log.Error("terminal endpoint unavailable", zap.Error(err))
		os.Exit(1)
	}

	if *list {
		if err := printTerminals(ctx, api, os.Stdout); err != nil {
			log.Error("list terminals", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	screen, err := run(ctx, cfg, log, *tabs, *execCmd, *wait, *width)
	if err != nil {
		log.Error("dockctl failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Print(screen)
}

// app is the dock assembled around one loop. Its fields are only touched
// on the loop.
type app struct {
	loop      *loop.Loop
	host      *dock.Store
	themes    *theme.Store
	manager   *terminal.Manager
	container *layout.Element
	renderers map[id.TabID]*renderer.Headless
	clients   []*channel.Client
	metrics   *monitoring.Metrics
	created   *renderer.Headless
}

// onLoop runs fn on the loop and waits for it.
func (a *app) onLoop(fn func()) {
	done := make(chan struct{})
	a.loop.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger, tabs int, execCmd string, wait time.Duration, width int) (string, error) {
	if tabs < 1 {
		return "", errors.New("at least one tab is required")
	}

	opts, err := terminal.OptionsFromConfig(cfg.Terminal)
	if err != nil {
		return "", err
	}
	themes, err := loadThemes(cfg.Theme)
	if err != nil {
		return "", err
	}

	lp := loop.New(log)
	loopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lp.Run(loopCtx)
	defer lp.Close()

	a := &app{
		loop:      lp,
		themes:    themes,
		renderers: make(map[id.TabID]*renderer.Headless),
		metrics:   monitoring.NewMetrics(nil),
	}
	a.onLoop(func() { a.build(log, opts, width) })
	defer a.onLoop(a.teardown)

	var first id.TabID
	ready := make(chan struct{})
	for i := 0; i < tabs; i++ {
		var client *channel.Client
		var openErr error
		a.onLoop(func() {
			tab := a.host.AddTab(fmt.Sprintf("Terminal %d", i+1))
			client = channel.New(lp, channel.Config{
				URL:              cfg.Channel.URL,
				TabID:            tab.ID,
				WriteQueue:       cfg.Channel.WriteQueue,
				HandshakeTimeout: cfg.Channel.HandshakeTimeout,
			}, log, a.metrics)
			openErr = a.open(tab.ID, client)
			if i == 0 {
				first = tab.ID
				client.OnReady(func() { close(ready) })
			}
		})
		if openErr != nil {
			return "", openErr
		}
		if err := client.Connect(ctx); err != nil {
			return "", err
		}
	}

	// Show the first tab, as a user would after opening several.
	a.onLoop(func() {
		if err := a.host.SelectTab(first); err != nil {
			log.Warn("select tab", zap.Error(err))
		}
	})

	select {
	case <-ready:
	case <-time.After(cfg.Channel.HandshakeTimeout):
		return "", errors.New("terminal did not become ready")
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if execCmd != "" {
		a.onLoop(func() {
			r := a.renderers[first]
			r.Paste(execCmd)
			r.HandleKey(keys.NewEvent("Enter", "Enter", 0))
		})
	}

	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}

	var screen string
	a.onLoop(func() { screen = a.renderers[first].String() })
	return screen, nil
}

// build assembles the dock: a visible body, the terminal container sized
// from the dock height and the session manager watching the tabs.
func (a *app) build(log *logging.Logger, opts terminal.Options, width int) {
	a.host = dock.NewStore(log, dock.WithCloseTabKey(opts.Keys.CloseTab))

	body := layout.NewElement("body")
	a.container = layout.NewElement(containerClass)
	a.container.Style.Hidden = !a.host.IsOpen()
	a.container.SetSize(width, a.host.Height())
	_ = body.AppendChild(a.container)

	// Registered before any session so geometry is current when sessions refit.
	a.host.OnResize(func() {
		a.container.SetSize(width, a.host.Height())
	})
	a.host.OnOpenChange(func(open bool) {
		a.container.Style.Hidden = !open
	})

	a.manager = terminal.NewManager(terminal.Deps{
		Host:      a.host,
		Theme:     a.themes,
		Pool:      terminal.NewPool(body),
		Scheduler: a.loop,
		NewRenderer: renderer.Factory(log, func(r *renderer.Headless) {
			a.created = r
		}),
		Links:     a.host,
		Clipboard: a.host,
		Log:       log,
		Metrics:   a.metrics,
	}, opts)
	a.manager.Watch(a.host, a.container)
}

// open starts the session of tabID and remembers its renderer.
func (a *app) open(tabID id.TabID, ch *channel.Client) error {
	a.created = nil
	a.clients = append(a.clients, ch)
	if _, err := a.manager.Open(tabID, ch); err != nil {
		return err
	}
	a.renderers[tabID] = a.created
	return nil
}

func (a *app) teardown() {
	a.manager.Stop()
	a.manager.CloseAll()
	for _, c := range a.clients {
		_ = c.Close()
	}
}

func newAPIClient(channelURL string, log *logging.Logger) (*client.Client, error) {
	base, err := client.BaseURLFromChannel(channelURL)
	if err != nil {
		return nil, err
	}
	return client.New(client.DefaultConfig(base), log)
}

// printTerminals writes one line per terminal on the endpoint.
func printTerminals(ctx context.Context, api *client.Client, w io.Writer) error {
	terms, err := api.ListTerminals(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTAB\tSHELL\tSIZE\tSTARTED\tACTIVE")
	for _, t := range terms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%s\t%t\n",
			t.ID, t.TabID, t.Shell, t.Cols, t.Rows, t.StartedAt.Format(time.RFC3339), t.Active)
	}
	return tw.Flush()
}

// loadThemes builds the theme store. A theme argument naming a file is
// loaded and activated.
func loadThemes(cfg config.ThemeConfig) (*theme.Store, error) {
	store := theme.NewStore("dark")
	if cfg.File != "" {
		if _, err := store.LoadGlob(cfg.File); err != nil {
			return nil, err
		}
	}

	active := cfg.Active
	switch filepath.Ext(active) {
	case ".yaml", ".yml", ".toml", ".json":
		t, err := store.LoadFile(active)
		if err != nil {
			return nil, err
		}
		active = t.ID
	}
	if active == "" {
		return store, nil
	}
	if err := store.SetActive(active); err != nil {
		return nil, fmt.Errorf("theme %q: %w", active, err)
	}
	return store, nil
}
