// Package transcript defines the core data model for speaker-attributed
// transcripts: word tokens with timestamps, speaker turns, output segments
// and the closed diarization Result variant consumed by resegmentation.
//
// All times are in seconds from the start of the audio file. Speaker labels
// are opaque, per-file identifiers with no cross-file meaning.
package transcript
