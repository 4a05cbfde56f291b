// Package loop provides the single logical execution context the dock runs on.
//
// All terminal session state is owned by one goroutine. Event sources that
// live on other goroutines (websocket readers, OS signals, timers) hand their
// work to the loop with Post, and delayed work is expressed as AfterFunc
// callbacks that are delivered through the same queue. Nothing on the loop
// blocks; a callback either finishes quickly or posts follow-up work.
//
// Features:
//   - FIFO delivery of posted callbacks
//   - Timers that run on the loop and can be stopped before they fire
//   - Panic isolation per callback
//   - A Manual scheduler with virtual time for deterministic tests
//
// Example Usage:
//
//	l := loop.New(logger)
//	go l.Run(ctx)
//	l.Post(func() { session.Fit() })
//	timer := l.AfterFunc(250*time.Millisecond, session.Focus)
//	timer.Stop()
package loop
