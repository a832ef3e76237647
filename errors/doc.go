// Package errors provides the structured AppError used across the service:
// a machine-readable code, a safe message, retryability, an HTTP status
// and diagnostic details.
//
// Voice pipeline failures are tagged with the stage that produced them
// (upload, submit, poll) and carry the remote status and body so they can be
// logged without ever being shown to a requester.
package errors
