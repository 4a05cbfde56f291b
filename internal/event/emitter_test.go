package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitterOrder(t *testing.T) {
	var e Emitter[int]
	var got []string

	e.On(func(v int) { got = append(got, "a") })
	e.On(func(v int) { got = append(got, "b") })
	e.Emit(1)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestEmitterRelease(t *testing.T) {
	var e Emitter[string]
	calls := 0

	release := e.On(func(string) { calls++ })
	assert.Equal(t, 1, e.Len())

	release()
	release()
	assert.Equal(t, 0, e.Len())

	e.Emit("x")
	assert.Equal(t, 0, calls)
}

func TestEmitterOnce(t *testing.T) {
	var e Emitter[struct{}]
	calls := 0

	release := e.Once(func(struct{}) { calls++ })
	e.Emit(struct{}{})
	e.Emit(struct{}{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, e.Len())

	// Releasing a fired one-shot listener is harmless.
	release()
}

func TestEmitterClear(t *testing.T) {
	var e Emitter[int]
	e.On(func(int) {})
	e.Once(func(int) {})

	e.Clear()
	assert.Equal(t, 0, e.Len())
}
