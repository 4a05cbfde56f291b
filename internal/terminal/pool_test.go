package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/dock/internal/layout"
)

func TestNewPoolStyle(t *testing.T) {
	body := layout.NewElement("body")
	p := NewPool(body)

	el := p.Element()
	assert.Same(t, body, el.Parent())
	assert.Equal(t, PoolClass, el.Class)
	assert.Equal(t, layout.PositionAbsolute, el.Style.Position)
	assert.Equal(t, 0, el.Style.Top)
	assert.Equal(t, 0, el.Style.Left)
	assert.True(t, el.Style.Hidden)
	assert.True(t, el.Style.OverflowHidden)
	assert.True(t, el.Style.NoPointerEvents)

	_, h := el.Size()
	assert.Equal(t, 0, h)
	assert.False(t, el.Visible())
}

func TestPoolAdopt(t *testing.T) {
	p := NewPool(nil)
	container := layout.NewElement("container")
	child := layout.NewElement("xterm")
	require.NoError(t, container.AppendChild(child))

	require.NoError(t, p.Adopt(child))
	assert.True(t, p.Contains(child))
	assert.Empty(t, container.Children())
	assert.False(t, p.Contains(nil))
	assert.False(t, p.Contains(container))
}

func TestEnsurePoolIsSingleton(t *testing.T) {
	body := layout.NewElement("body")
	first := EnsurePool(body)
	children := len(body.Children())

	second := EnsurePool(layout.NewElement("other"))
	assert.Same(t, first, second)
	assert.Len(t, body.Children(), children)
}
