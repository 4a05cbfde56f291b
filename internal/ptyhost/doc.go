// Package ptyhost runs shells under pseudo terminals for the terminal
// endpoint.
//
// Each Session owns one shell process and its PTY master. A reader
// goroutine copies PTY output into a bounded history buffer and into the
// stream returned by Session.Output; the stream applies backpressure, so
// a shell whose consumer stops reading eventually blocks on write. When
// the shell exits the stream reaches EOF and Session.Done is closed.
package ptyhost
