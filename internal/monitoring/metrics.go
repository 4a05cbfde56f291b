package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Terminal core metrics
	SessionsActive prometheus.Gauge
	Fits           prometheus.Counter
	RemoteResizes  prometheus.Counter
	InputDropped   prometheus.Counter
	OutputBytes    prometheus.Counter

	// Endpoint metrics
	WSConnections prometheus.Gauge
	WSFrames      *prometheus.CounterVec
	PTYSessions   prometheus.Gauge
}

// NewMetrics registers the metric set with reg.
// A nil registerer falls back to a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dock_terminal_sessions_active",
				Help: "Number of live terminal sessions",
			},
		),
		Fits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dock_terminal_fits_total",
				Help: "Fit passes that produced a valid geometry",
			},
		),
		RemoteResizes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dock_terminal_remote_resizes_total",
				Help: "Size notifications sent to the command channel",
			},
		),
		InputDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dock_terminal_input_dropped_total",
				Help: "Input chunks dropped because the command channel was not ready",
			},
		),
		OutputBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dock_terminal_output_bytes_total",
				Help: "Bytes of remote output written into renderers",
			},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dock_ws_connections",
				Help: "Number of open terminal websocket connections",
			},
		),
		WSFrames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dock_ws_frames_total",
				Help: "Terminal websocket frames by direction and channel",
			},
			[]string{"direction", "channel"},
		),
		PTYSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dock_pty_sessions_active",
				Help: "Number of running PTY sessions",
			},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// SessionOpened records a new terminal session.
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.SessionsActive.Inc()
	}
}

// SessionClosed records a destroyed terminal session.
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.SessionsActive.Dec()
	}
}

// RecordFit records a fit pass and whether the remote side was notified.
func (m *Metrics) RecordFit(notified bool) {
	if m == nil {
		return
	}
	m.Fits.Inc()
	if notified {
		m.RemoteResizes.Inc()
	}
}

// RecordDroppedInput records an input chunk dropped before readiness.
func (m *Metrics) RecordDroppedInput() {
	if m != nil {
		m.InputDropped.Inc()
	}
}

// RecordOutput records bytes written into a renderer.
func (m *Metrics) RecordOutput(n int) {
	if m != nil {
		m.OutputBytes.Add(float64(n))
	}
}

// WSConnected records an opened websocket.
func (m *Metrics) WSConnected() {
	if m != nil {
		m.WSConnections.Inc()
	}
}

// WSDisconnected records a closed websocket.
func (m *Metrics) WSDisconnected() {
	if m != nil {
		m.WSConnections.Dec()
	}
}

// RecordFrame counts one websocket frame.
func (m *Metrics) RecordFrame(direction, channel string) {
	if m != nil {
		m.WSFrames.WithLabelValues(direction, channel).Inc()
	}
}

// PTYStarted records a spawned PTY session.
func (m *Metrics) PTYStarted() {
	if m != nil {
		m.PTYSessions.Inc()
	}
}

// PTYStopped records an exited PTY session.
func (m *Metrics) PTYStopped() {
	if m != nil {
		m.PTYSessions.Dec()
	}
}
