package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/AgentOS/dock/internal/event"
)

// MockChannel is a command channel double. IsReady, SendCommand and
// SendSize go through testify's mock; listener registration is real so
// tests can emit data and ready signals.
type MockChannel struct {
	mock.Mock

	data    event.Emitter[string]
	ready   event.Emitter[struct{}]
	removed int
}

// NewMockChannel creates a channel with no expectations set.
func NewMockChannel() *MockChannel {
	return &MockChannel{}
}

// IsReady implements the channel.
func (m *MockChannel) IsReady() bool {
	return m.Called().Bool(0)
}

// SendCommand implements the channel.
func (m *MockChannel) SendCommand(data string) error {
	return m.Called(data).Error(0)
}

// SendSize implements the channel.
func (m *MockChannel) SendSize(cols, rows int) error {
	return m.Called(cols, rows).Error(0)
}

// OnData implements the channel.
func (m *MockChannel) OnData(fn func(chunk string)) event.Release {
	return m.data.On(fn)
}

// OnReady implements the channel. fn fires at most once.
func (m *MockChannel) OnReady(fn func()) event.Release {
	return m.ready.Once(func(struct{}) { fn() })
}

// RemoveAllListeners implements the channel.
func (m *MockChannel) RemoveAllListeners() {
	m.removed++
	m.data.Clear()
	m.ready.Clear()
}

// EmitData delivers chunk to data listeners.
func (m *MockChannel) EmitData(chunk string) { m.data.Emit(chunk) }

// EmitReady delivers the ready signal.
func (m *MockChannel) EmitReady() { m.ready.Emit(struct{}{}) }

// Listeners returns the number of registered data and ready listeners.
func (m *MockChannel) Listeners() int { return m.data.Len() + m.ready.Len() }

// Removed returns how often RemoveAllListeners was called.
func (m *MockChannel) Removed() int { return m.removed }
