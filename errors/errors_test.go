package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad field")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}
	if err.Message != "bad field" {
		t.Errorf("expected message 'bad field', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("INVALID_INPUT should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeConnectionFailed, "no route")
	if !err.Retryable {
		t.Error("CONNECTION_FAILED should be retryable")
	}
}

func TestAppError_TranscriptionFailed_Success(t *testing.T) {
	cause := fmt.Errorf("sidecar returned 500")
	err := TranscriptionFailed("meeting.wav", cause)
	if err.Code != ErrCodeTranscriptionFailed {
		t.Errorf("expected TRANSCRIPTION_FAILED, got %s", err.Code)
	}
	if err.Details["file"] != "meeting.wav" {
		t.Errorf("expected file=meeting.wav, got %v", err.Details["file"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be in the chain")
	}
	if err.Retryable {
		t.Error("TranscriptionFailed should not be retryable")
	}
}

func TestAppError_ExtractionFailed_Retryable(t *testing.T) {
	err := ExtractionFailed(1.0, 2.0, fmt.Errorf("boom"))
	if !err.Retryable {
		t.Error("EXTRACTION_FAILED should be retryable")
	}
	if err.Details["start"] != 1.0 || err.Details["end"] != 2.0 {
		t.Errorf("expected window bounds in details, got %v", err.Details)
	}
}

func TestAppError_DiarizationUnavailable_Details(t *testing.T) {
	err := DiarizationUnavailable("pyannote", fmt.Errorf("no token"))
	if err.Details["method"] != "pyannote" {
		t.Errorf("expected method=pyannote, got %v", err.Details["method"])
	}
}

func TestAppError_Cancelled_NotRetryable(t *testing.T) {
	err := Cancelled()
	if err.Code != ErrCodeCancelled {
		t.Errorf("expected CANCELLED, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("Cancelled should not be retryable")
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	err := Internal(fmt.Errorf("disk full"))
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error string")
	}
	if !stderrors.Is(err, err.Cause) {
		t.Error("expected Unwrap to expose cause")
	}
}

func TestHasCode_Wrapped(t *testing.T) {
	inner := DiarizationUnavailable("wavlm", nil)
	wrapped := fmt.Errorf("diarize: %w", inner)
	if !HasCode(wrapped, ErrCodeDiarizationUnavailable) {
		t.Error("expected HasCode to find code through wrapping")
	}
	if HasCode(wrapped, ErrCodeCancelled) {
		t.Error("did not expect CANCELLED code")
	}
}

func TestHasCode_PlainError(t *testing.T) {
	if HasCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestAppError_WithDetail_Chaining(t *testing.T) {
	err := New(ErrCodeInternal, "oops").WithDetail("k", "v").WithCause(fmt.Errorf("root"))
	if err.Details["k"] != "v" {
		t.Errorf("expected detail k=v, got %v", err.Details["k"])
	}
	if err.Cause == nil {
		t.Error("expected cause to be set")
	}
}
