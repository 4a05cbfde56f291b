// Package ws serves terminals over websockets.
//
// HandleTerminal is the far end of the dock's command channel. Each
// connection gets its own shell under a PTY. Frames use the
// base64.channel.k8s.io subprotocol: stdin frames are written to the PTY,
// resize frames resize it (rate limited per connection), and PTY output is
// sent back as stdout frames. The shell is killed when the socket closes
// and the socket is closed when the shell exits.
package ws
