// Package api is a typed client for the Uptime Stars REST backend.
//
// Every operation is a single request with no retries. Failures are reported
// as one of three error types: [*ValidationError] when the input is rejected
// before any network call, [*NetworkError] when no response was received, and
// [*RemoteRequestError] for non-2xx responses. A returned error never implies
// partial success.
package api
