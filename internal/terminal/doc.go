// Package terminal manages the terminal sessions shown in the dock.
//
// Each dock tab of kind terminal owns one Session. A session binds a
// renderer to a remote command channel, parks the renderer in a hidden
// pool while its tab is not shown, keeps the remote size in step with the
// visible area, decides which key chords the terminal keeps and which it
// forwards to the dock, re-colours the renderer on theme changes and
// releases every subscription it made when destroyed.
//
// Collaborators (renderer, fitter, command channel, theme source, dock
// host) are interfaces so the core runs against the headless renderer and
// websocket channel in production and against fakes in tests.
//
// All session methods and all callbacks must run on one execution context,
// the loop.Scheduler the session was built with. Sessions are not safe for
// concurrent use.
package terminal
