// Package api is the HTTP client for the remote FormBucket API.
//
// This package is internal to formbucket. It exposes one method per remote
// operation on [Client]; each method issues a single JSON request, waits for
// the response and decodes it into the [model] types. Nothing here touches
// application state: merging results is the caller's job.
//
// The main components are:
//
//   - [Client]: connection-pooled HTTP client with bearer auth and per-request timeouts
//   - [Error]: non-2xx response returned by the API
//
// Every request carries an X-Request-ID header so client and server logs can
// be correlated.
package api
