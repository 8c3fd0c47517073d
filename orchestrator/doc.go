// Package orchestrator drives the transcription pipeline over a queue of
// audio files on a single background worker.
//
// Files are processed strictly in queue order, one at a time, each through
// the sequential stages transcribe, diarize, write. The worker owns all
// per-file state; the only cross-goroutine state is a small progress
// snapshot behind one mutex, written by the worker and polled by the
// caller. Cancellation is cooperative: the stop flag is observed before
// each new file and after the in-flight file's segment loop, never
// mid-call.
package orchestrator
