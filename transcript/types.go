package transcript

// SpeakerUnknown is the label for a unit whose speaker could not be resolved.
// It renders as an empty speaker field in output.
const SpeakerUnknown = ""

// DefaultSpeaker is the single-speaker label assigned when there is not
// enough signal to cluster.
const DefaultSpeaker = "SPEAKER_00"

// Word is the smallest transcribed unit with its own timestamps.
// Words within a file are chronologically non-decreasing by Start and are
// relabeled in place by the attribution stage, never reordered or split.
type Word struct {
	// Text is the transcribed word.
	Text string `json:"text"`
	// Start is the word start time in seconds.
	Start float64 `json:"start"`
	// End is the word end time in seconds. Start <= End.
	End float64 `json:"end"`
	// Speaker is the attributed speaker label, if any.
	Speaker string `json:"speaker,omitempty"`
}

// Midpoint returns the temporal midpoint of the word.
func (w Word) Midpoint() float64 {
	return (w.Start + w.End) / 2
}

// Turn is an externally produced time span with exactly one speaker label.
// Start < End. Turns are assumed non-overlapping, but consumers must
// tolerate overlap (first match in iteration order wins).
type Turn struct {
	// Start is the turn start time in seconds.
	Start float64 `json:"start"`
	// End is the turn end time in seconds.
	End float64 `json:"end"`
	// Speaker is the speaker label for the whole turn.
	Speaker string `json:"speaker"`
}

// Contains reports whether t lies inside the closed interval [Start, End].
func (t Turn) Contains(at float64) bool {
	return t.Start <= at && at <= t.End
}

// Segment is one speaker-homogeneous output unit. Segments for a file are
// chronologically ordered; their spans do not overlap and jointly cover
// every input word's span.
type Segment struct {
	// Text is the joined word text for the segment.
	Text string `json:"text"`
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Speaker is the attributed speaker label; empty when no speaker signal
	// was available.
	Speaker string `json:"speaker,omitempty"`
}
