// Package diarization defines the provider interface and common types for
// speaker diarization backends, and the fallback chain that picks the
// authoritative backend per file.
//
// Two backends are provided:
//
//   - diarization/wavlm: sliding-window embedding clustering over the word
//     stream. Needs no credential; produces per-word speaker labels.
//   - diarization/pyannote: external turn-level diarization pipeline.
//     Needs a credential; produces ordered speaker turns.
//
// The Chain tries backends in a fixed priority order; any backend failure
// degrades to the next method rather than aborting the file.
package diarization
