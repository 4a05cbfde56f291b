package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/GriffinCanCode/AgentOS/dock/internal/ptyhost"
	"github.com/GriffinCanCode/AgentOS/dock/internal/shared/id"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	ptys      *ptyhost.Manager
	startedAt time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(ptys *ptyhost.Manager) *Handlers {
	return &Handlers{
		ptys:      ptys,
		startedAt: time.Now(),
	}
}

// ResizeRequest is the body of POST /api/terminals/:id/resize.
type ResizeRequest struct {
	Cols int `json:"cols" binding:"required,min=1,max=65535"`
	Rows int `json:"rows" binding:"required,min=1,max=65535"`
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "dock terminal endpoint",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	sessions := h.ptys.ListSessions()
	active := 0
	for _, s := range sessions {
		if s.Active {
			active++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"terminals": gin.H{"total": len(sessions), "active": active},
	})
}

// ListTerminals lists all PTY sessions
func (h *Handlers) ListTerminals(c *gin.Context) {
	sessions := h.ptys.ListSessions()
	c.JSON(http.StatusOK, gin.H{
		"terminals": sessions,
		"count":     len(sessions),
	})
}

// GetTerminal returns one PTY session
func (h *Handlers) GetTerminal(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Info())
}

// TerminalOutput returns the recent output of a session as plain text
func (h *Handlers) TerminalOutput(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	history := session.History()
	if !acceptsGzip(c) {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", history)
		return
	}

	c.Header("Content-Encoding", "gzip")
	c.Header("Vary", "Accept-Encoding")
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	gz := gzip.NewWriter(c.Writer)
	if _, err := gz.Write(history); err != nil {
		_ = c.Error(err)
	}
	if err := gz.Close(); err != nil {
		_ = c.Error(err)
	}
}

func acceptsGzip(c *gin.Context) bool {
	for _, enc := range strings.Split(c.GetHeader("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.SplitN(enc, ";", 2)[0]) == "gzip" {
			return true
		}
	}
	return false
}

// ResizeTerminal resizes a session's PTY
func (h *Handlers) ResizeTerminal(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ptys.Resize(session.ID, req.Cols, req.Rows); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Info())
}

// KillTerminal terminates a session
func (h *Handlers) KillTerminal(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.ptys.Kill(session.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": session.ID})
}

func (h *Handlers) session(c *gin.Context) (*ptyhost.Session, bool) {
	sid := c.Param("id")
	if !id.IsValidPrefixed(sid, id.SessionPrefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid terminal id %q", sid)})
		return nil, false
	}

	session, err := h.ptys.GetSession(id.SessionID(sid))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return session, true
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ptyhost.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ptyhost.ErrSessionClosed):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
