// Package embedding defines the provider interface for speaker-embedding
// extraction backends. An extractor maps an audio excerpt to a fixed-length
// vector characteristic of the speaker.
//
// # Backends
//
//   - embedding/wavlm: WavLM x-vector HTTP sidecar
package embedding
