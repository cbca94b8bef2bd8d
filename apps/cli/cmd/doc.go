// Package cmd implements the courier CLI commands using Cobra.
//
// Available commands:
//   - send: Build and send an HTTP request, printing the captured exchange
//   - validate: Check request file syntax without sending
//   - history: Show executions recorded with send --record
//   - version: Show courier version information
//
// The CLI supports flags for client profiles, per-request timeouts,
// client certificates, value extraction, repeat mode and watch mode for
// development workflows.
package cmd
