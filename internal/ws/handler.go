package ws

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/channel"
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/middleware"
	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
	"github.com/GriffinCanCode/AgentOS/dock/internal/ptyhost"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

const (
	writeWait  = 10 * time.Second
	closeGrace = 2 * time.Second
	outputBuf  = 32 * 1024
)

// Handler manages terminal websocket connections.
type Handler struct {
	ptys     *ptyhost.Manager
	resize   middleware.RateLimitConfig
	log      *logging.Logger
	metrics  *monitoring.Metrics
	upgrader websocket.Upgrader
}

// NewHandler creates a new terminal websocket handler.
func NewHandler(ptys *ptyhost.Manager, resize middleware.RateLimitConfig, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{
		ptys:    ptys,
		resize:  resize,
		log:     log.Named("ws"),
		metrics: metrics,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{channel.Subprotocol},
			CheckOrigin: func(r *http.Request) bool {
				return true // origins are enforced by the CORS middleware
			},
		},
	}
}

// conn serializes writes to one websocket.
type conn struct {
	ws      *websocket.Conn
	mu      sync.Mutex
	metrics *monitoring.Metrics
}

func (c *conn) writeFrame(ch channel.Channel, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, channel.EncodeFrame(ch, data)); err != nil {
		return err
	}
	c.metrics.RecordFrame("out", ch.String())
	return nil
}

func (c *conn) writeClose(code int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := websocket.FormatCloseMessage(code, text)
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// HandleTerminal upgrades the request and runs a shell for the connection.
// The optional query parameters id, cols and rows name the dock tab and the
// initial terminal size.
func (h *Handler) HandleTerminal(c *gin.Context) {
	tabID := c.Query("id")
	cols := queryInt(c, "cols")
	rows := queryInt(c, "rows")

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	connID := id.NewConnID()
	log := h.log.With(
		zap.String("conn", connID.String()),
		zap.String("tab", tabID),
		zap.String("trace", middleware.TraceID(c)))
	h.metrics.WSConnected()
	defer h.metrics.WSDisconnected()

	tc := &conn{ws: ws, metrics: h.metrics}

	session, err := h.ptys.CreateSession(ptyhost.Options{TabID: tabID, Cols: cols, Rows: rows})
	if err != nil {
		log.Error("failed to start shell", zap.Error(err))
		_ = tc.writeFrame(channel.Error, []byte(err.Error()))
		tc.writeClose(websocket.CloseInternalServerErr, "shell failed to start")
		return
	}
	log = log.With(zap.String("session", session.ID.String()))
	log.Info("terminal attached")

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		h.pumpOutput(tc, session, log)
	}()

	throttle := middleware.NewThrottle(h.resize, func(size channel.TerminalSize) {
		if err := h.ptys.Resize(session.ID, int(size.Width), int(size.Height)); err != nil {
			log.Debug("resize failed", zap.Error(err))
		}
	})

	h.readLoop(tc, session, throttle, log)

	throttle.Stop()
	if err := h.ptys.Kill(session.ID); err != nil && !errors.Is(err, ptyhost.ErrSessionNotFound) {
		log.Warn("failed to kill shell", zap.Error(err))
	}
	ws.Close()
	<-pumpDone
	log.Info("terminal detached", zap.Int("exit_code", session.ExitCode()))
}

// pumpOutput forwards PTY output until the shell exits, then closes the socket.
func (h *Handler) pumpOutput(tc *conn, session *ptyhost.Session, log *logging.Logger) {
	buf := make([]byte, outputBuf)
	out := session.Output()
	for {
		n, err := out.Read(buf)
		if n > 0 {
			if werr := tc.writeFrame(channel.Stdout, buf[:n]); werr != nil {
				log.Debug("output write failed", zap.Error(werr))
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Debug("output read failed", zap.Error(err))
			}
			break
		}
	}

	tc.writeClose(websocket.CloseNormalClosure, "shell exited")
	// Wait briefly for the peer's close reply before the read loop gives up.
	tc.ws.SetReadDeadline(time.Now().Add(closeGrace))
}

// readLoop applies incoming frames until the socket closes.
func (h *Handler) readLoop(tc *conn, session *ptyhost.Session, throttle *middleware.Throttle[channel.TerminalSize], log *logging.Logger) {
	for {
		_, msg, err := tc.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		frame, err := channel.DecodeFrame(msg)
		if err != nil {
			_ = tc.writeFrame(channel.Error, []byte(err.Error()))
			continue
		}
		h.metrics.RecordFrame("in", frame.Channel.String())

		switch frame.Channel {
		case channel.Stdin:
			if err := h.ptys.Write(session.ID, frame.Data); err != nil {
				if errors.Is(err, ptyhost.ErrSessionClosed) || errors.Is(err, ptyhost.ErrSessionNotFound) {
					continue
				}
				log.Warn("stdin write failed", zap.Error(err))
			}
		case channel.Resize:
			size, err := channel.DecodeResize(frame.Data)
			if err != nil {
				_ = tc.writeFrame(channel.Error, []byte(err.Error()))
				continue
			}
			throttle.Submit(size)
		default:
			_ = tc.writeFrame(channel.Error, []byte("unsupported channel "+frame.Channel.String()))
		}
	}
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
