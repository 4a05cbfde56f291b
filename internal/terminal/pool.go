package terminal

import (
	"sync"

	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
)

// PoolClass is the element class of the render surface pool.
const PoolClass = "terminal-init"

// Pool is the off-screen container that keeps renderers mounted while
// their tab is not shown.
type Pool struct {
	el *layout.Element
}

var (
	globalPool *Pool
	poolOnce   sync.Once
)

// EnsurePool returns the process-wide pool, creating it inside body on the
// first call. Later calls return the same pool and ignore body.
func EnsurePool(body *layout.Element) *Pool {
	poolOnce.Do(func() {
		globalPool = NewPool(body)
	})
	return globalPool
}

// NewPool creates a pool inside body. body may be nil.
func NewPool(body *layout.Element) *Pool {
	el := layout.NewElement(PoolClass)
	el.Style = layout.Style{
		Position:        layout.PositionAbsolute,
		Top:             0,
		Left:            0,
		Hidden:          true,
		OverflowHidden:  true,
		NoPointerEvents: true,
	}
	el.SetSize(0, 0)

	if body != nil {
		_ = body.AppendChild(el)
	}
	return &Pool{el: el}
}

// Element returns the pool container.
func (p *Pool) Element() *layout.Element { return p.el }

// Adopt moves el into the pool.
func (p *Pool) Adopt(el *layout.Element) error {
	return p.el.AppendChild(el)
}

// Contains reports whether el is parked directly in the pool.
func (p *Pool) Contains(el *layout.Element) bool {
	return el != nil && el.Parent() == p.el
}
