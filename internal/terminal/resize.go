package terminal

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/dock/internal/loop"
)

// DefaultResizeDebounce is the quiescence window for resize signals.
const DefaultResizeDebounce = 250 * time.Millisecond

// ResizeCoordinator coalesces resize signals into one fit per quiet period.
type ResizeCoordinator struct {
	sched  loop.Scheduler
	window time.Duration
	active func() bool
	alive  func() bool
	fit    func()

	timer loop.Timer
}

// NewResizeCoordinator creates a coordinator. Signals are ignored while
// active reports false; fit runs only while alive reports true.
func NewResizeCoordinator(sched loop.Scheduler, window time.Duration, active, alive func() bool, fit func()) *ResizeCoordinator {
	if window <= 0 {
		window = DefaultResizeDebounce
	}
	return &ResizeCoordinator{
		sched:  sched,
		window: window,
		active: active,
		alive:  alive,
		fit:    fit,
	}
}

// Signal notes a possible geometry change and restarts the quiet period.
func (c *ResizeCoordinator) Signal() {
	if !c.alive() || !c.active() {
		return
	}
	c.Cancel()

	var timer loop.Timer
	timer = c.sched.AfterFunc(c.window, func() {
		if c.timer == timer {
			c.timer = nil
		}
		if c.alive() {
			c.fit()
		}
	})
	c.timer = timer
}

// Cancel drops a pending fit.
func (c *ResizeCoordinator) Cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Pending reports whether a fit is scheduled.
func (c *ResizeCoordinator) Pending() bool {
	return c.timer != nil
}
