// Package devtools provides a read-only HTTP inspector for application state.
//
// The server exposes:
//
//   - GET /: the embedded inspector page
//   - GET /api/state: the current state as JSON
//   - GET /api/sse: Server-Sent Events stream with a snapshot after every change
//
// The user's token is redacted from every response. The server supports
// graceful shutdown via context cancellation, with a 5-second timeout for
// in-flight requests.
//
// Users of the formbucket library should not need to interact with this
// package directly. The server is started by [formbucket.App.StartDevtools].
package devtools
