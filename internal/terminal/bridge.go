package terminal

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/monitoring"
)

// Bridge relays data between a command channel and a renderer.
type Bridge struct {
	channel  CommandChannel
	renderer Renderer
	alive    func() bool
	log      *logging.Logger
	metrics  *monitoring.Metrics

	ready bool
}

// NewBridge creates a bridge. Every entry point is a no-op once alive
// reports false.
func NewBridge(ch CommandChannel, r Renderer, alive func() bool, log *logging.Logger, metrics *monitoring.Metrics) *Bridge {
	if log == nil {
		log = logging.NewNop()
	}
	return &Bridge{channel: ch, renderer: r, alive: alive, log: log, metrics: metrics}
}

// Inbound writes remote output to the renderer as received.
func (b *Bridge) Inbound(chunk string) {
	if !b.alive() {
		return
	}
	b.renderer.Write(chunk)
}

// Outbound forwards local input when the channel is ready and drops it
// otherwise.
func (b *Bridge) Outbound(data string) {
	if !b.alive() {
		return
	}
	if !b.channel.IsReady() {
		b.metrics.RecordDroppedInput()
		return
	}
	if err := b.channel.SendCommand(data); err != nil {
		b.log.Debug("send input failed", zap.Error(err))
	}
}

// Ready clears status output written before the channel became ready.
// Only the first call has an effect.
func (b *Bridge) Ready() {
	if !b.alive() || b.ready {
		return
	}
	b.ready = true
	b.renderer.Clear()
}

// IsReady reports whether Ready has run.
func (b *Bridge) IsReady() bool { return b.ready }
