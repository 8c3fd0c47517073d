// Package resegment converts a speaker-labeled word stream into ordered,
// speaker-homogeneous transcript segments.
//
// Labels come either attached to the words themselves (window-embedding
// diarization) or as external speaker turns resolved by temporal
// containment. Either way the merge rule is the same: maximal runs of
// consecutive same-speaker words become one segment.
package resegment
