// Package resilience provides retry with exponential backoff for calls
// to the external sidecars.
//
// Coded errors drive the default policy: only errors marked retryable
// (connection failures, transient extraction errors) are retried;
// context cancellation never is.
package resilience
