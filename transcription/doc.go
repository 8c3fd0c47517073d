// Package transcription defines the provider interface and common types
// for interacting with speech-to-text backends.
//
// Backends must produce word-level timestamps; speaker attribution operates
// on individual words downstream.
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Set("whisper", whisperProvider)
//	result, err := whisperProvider.Transcribe(ctx, req)
package transcription
