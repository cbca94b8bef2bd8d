// Package transport implements single-call HTTP request/response wrappers.
//
// A Transport builds an outgoing request from configuration, sends it
// through net/http, captures the response (status, headers, cookies and a
// text-or-raw body), renders human-readable request and response logs, and
// fires four lifecycle notifications per execution:
//   - request built (carries the rendered request log)
//   - response received (carries the rendered response log or error message)
//   - exactly one of succeeded / failed
//
// Execute never returns an error: every failure is converted into a failure
// notification and a structured Failure on the Result, and Execute reports
// plain success or not.
//
// Two implementations exist behind the same interface: Pooled obtains its
// client from a named profile in a clientpool.Registry, Direct constructs a
// fresh client per call and supports client certificates with a custom
// verification hook.
package transport
