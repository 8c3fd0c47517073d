// Package errors provides unified error handling for the transcription
// engine. It implements structured error types with machine-readable codes,
// cause chaining and retryable detection.
package errors
