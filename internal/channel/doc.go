// Package channel implements the command channel between a dock terminal
// and its remote shell.
//
// The wire format follows the Kubernetes base64.channel.k8s.io websocket
// subprotocol: every text message starts with one channel digit followed
// by the base64 encoded payload. Channel 0 carries keyboard input to the
// shell, 1 and 2 carry shell output, 3 carries endpoint errors and 4
// carries terminal size changes as {"Width":cols,"Height":rows}.
//
// Client is the dock side. Socket reads happen on a reader goroutine and
// are posted to the caller's loop.Scheduler, so listeners run on the same
// execution context as the terminal session. Writes are queued and
// performed by a writer goroutine; sending never blocks the loop.
package channel
