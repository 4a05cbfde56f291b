package renderer

import (
	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/terminal"
)

// Factory returns a terminal.RendererFactory producing Headless renderers.
// created, if set, receives every renderer made so callers can drive its
// keyboard and pointer input.
func Factory(log *logging.Logger, created func(*Headless)) terminal.RendererFactory {
	return func(opts terminal.RendererOptions) (terminal.Renderer, terminal.Fitter) {
		r := NewHeadless(log, opts)
		if created != nil {
			created(r)
		}
		return r, NewFitter(r, opts.FontSize)
	}
}
