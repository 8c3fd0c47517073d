package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// HasCode reports whether err or any error in its chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// --- Common Error Constructors ---

// TranscriptionFailed creates a new AppError for a file whose transcription
// stage failed.
func TranscriptionFailed(file string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscriptionFailed, Message: fmt.Sprintf("Transcription failed for %s.", file),
		Retryable: false,
		Details:   map[string]any{"file": file},
		Cause:     cause,
	}
}

// DiarizationUnavailable creates a new AppError for a diarization method that
// cannot produce speaker labels.
func DiarizationUnavailable(method string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDiarizationUnavailable, Message: fmt.Sprintf("Speaker diarization via %s is unavailable.", method),
		Retryable: false,
		Details:   map[string]any{"method": method},
		Cause:     cause,
	}
}

// ExtractionFailed creates a new AppError for an embedding window whose
// extraction failed.
func ExtractionFailed(start, end float64, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExtractionFailed, Message: "Embedding extraction failed for window.",
		Retryable: true,
		Details:   map[string]any{"start": start, "end": end},
		Cause:     cause,
	}
}

// Cancelled creates a new AppError for a user-requested stop.
func Cancelled() *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Message: "Processing stopped by user.",
		Retryable: false,
	}
}

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// ExternalServiceError creates a new AppError for an error from an external service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		Retryable: true,
		Details:   map[string]any{"service": service}, Cause: cause,
	}
}
