// Package event provides listener registries for the dock's event sources.
//
// Every registration returns an explicit Release token. Owners keep the
// tokens they receive and invoke each one exactly once when they are torn
// down; a Release is idempotent, so a second call is harmless.
//
// Example Usage:
//
//	var resized event.Emitter[struct{}]
//	release := resized.On(func(struct{}) { fit() })
//	defer release()
//	resized.Emit(struct{}{})
package event
