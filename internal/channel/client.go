package channel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/loop"
	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// Status lines written to the terminal by the client itself.
const (
	StatusConnecting   = "Connecting to terminal…"
	StatusDisconnected = "Terminal disconnected"
)

const writeWait = 10 * time.Second

var (
	// ErrNotConnected is returned when sending before Connect succeeded.
	ErrNotConnected = errors.New("channel not connected")
	// ErrClosed is returned when sending after Close.
	ErrClosed = errors.New("channel closed")
	// ErrQueueFull is returned when the write queue has no room.
	ErrQueueFull = errors.New("channel write queue full")
)

// Config configures a Client.
type Config struct {
	URL              string
	TabID            id.TabID
	WriteQueue       int
	HandshakeTimeout time.Duration
	Header           http.Header
}

// Client is a command channel over a websocket.
type Client struct {
	cfg     Config
	sched   loop.Scheduler
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu     sync.Mutex
	conn   *websocket.Conn
	out    chan []byte
	closed bool

	ready     atomic.Bool
	done      chan struct{}
	closeOnce sync.Once

	data    event.Emitter[string]
	readyEv event.Emitter[struct{}]
}

// New creates an unconnected client. Listeners run on sched.
func New(sched loop.Scheduler, cfg Config, log *logging.Logger, metrics *monitoring.Metrics) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	if cfg.WriteQueue <= 0 {
		cfg.WriteQueue = 256
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		sched:   sched,
		log:     log.Named("channel").With(zap.String("tab", cfg.TabID.String())),
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Connect dials the endpoint and starts the reader and writer goroutines.
// It blocks for the handshake and must not be called on the loop.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.emitStatus(StatusConnecting)

	target, err := c.endpoint()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
		Subprotocols:     []string{Subprotocol},
	}
	conn, _, err := dialer.DialContext(ctx, target, c.cfg.Header)
	if err != nil {
		return fmt.Errorf("dial terminal: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.out = make(chan []byte, c.cfg.WriteQueue)
	out := c.out
	c.mu.Unlock()

	c.log.Debug("connected", zap.String("url", target))
	go c.writeLoop(conn, out)
	go c.readLoop(conn)
	return nil
}

// endpoint adds the tab id to the configured URL.
func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse terminal URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if c.cfg.TabID != "" {
		q := u.Query()
		q.Set("id", c.cfg.TabID.String())
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.shutdown()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !c.isClosed() {
				c.log.Debug("read ended", zap.Error(err))
			}
			return
		}

		frame, err := DecodeFrame(msg)
		if err != nil {
			c.log.Warn("bad frame", zap.Error(err))
			continue
		}
		c.metrics.RecordFrame("in", frame.Channel.String())
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame Frame) {
	var chunk string
	switch frame.Channel {
	case Stdout, Stderr:
		chunk = string(frame.Data)
	case Error:
		chunk = "\r\n\x1b[31m" + string(frame.Data) + "\x1b[0m\r\n"
	default:
		return
	}

	c.sched.Post(func() {
		if c.isClosed() {
			return
		}
		if c.ready.CompareAndSwap(false, true) {
			c.readyEv.Emit(struct{}{})
		}
		c.metrics.RecordOutput(len(chunk))
		c.data.Emit(chunk)
	})
}

func (c *Client) writeLoop(conn *websocket.Conn, out <-chan []byte) {
	for {
		select {
		case msg := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				return
			}
			c.metrics.RecordFrame("out", Channel(msg[0]).String())
		case <-c.done:
			return
		}
	}
}

// shutdown runs when the reader stops. The ready flag is reset on the
// loop so output posted before the hangup cannot set it again.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })

	c.sched.Post(func() {
		c.ready.Store(false)
		if !c.isClosed() {
			c.data.Emit(statusLine(StatusDisconnected))
		}
	})
}

// IsReady reports whether the endpoint has started sending output.
func (c *Client) IsReady() bool {
	return c.ready.Load()
}

// SendCommand queues keyboard input for the shell.
func (c *Client) SendCommand(data string) error {
	return c.enqueue(EncodeFrame(Stdin, []byte(data)))
}

// SendSize queues a terminal size change.
func (c *Client) SendSize(cols, rows int) error {
	msg, err := EncodeResize(cols, rows)
	if err != nil {
		return err
	}
	return c.enqueue(msg)
}

func (c *Client) enqueue(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.out == nil {
		return ErrNotConnected
	}
	select {
	case <-c.done:
		return ErrNotConnected
	default:
	}

	select {
	case c.out <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// OnData registers fn for output chunks and client status lines.
func (c *Client) OnData(fn func(chunk string)) event.Release {
	return c.data.On(fn)
}

// OnReady registers fn for the first output from the endpoint.
func (c *Client) OnReady(fn func()) event.Release {
	return c.readyEv.Once(func(struct{}) { fn() })
}

// RemoveAllListeners drops every data and ready listener.
func (c *Client) RemoveAllListeners() {
	c.data.Clear()
	c.readyEv.Clear()
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close tears down the connection. Listeners get a final status line.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	c.ready.Store(false)
	c.emitStatus(StatusDisconnected)

	if conn == nil {
		c.closeOnce.Do(func() { close(c.done) })
		return nil
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return conn.Close()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) emitStatus(msg string) {
	line := statusLine(msg)
	c.sched.Post(func() { c.data.Emit(line) })
}

func statusLine(msg string) string {
	return "\x1b[90m" + msg + "\x1b[0m\r\n"
}
