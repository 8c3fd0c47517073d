// Package output renders finished transcripts to text files.
//
// Two formats are supported: a timestamped layout suitable for subtitle
// work, and a plain conversational layout. Both carry the same header and
// the same speaker prefixes; only the per-segment body differs.
package output
