package resegment

import (
	"strings"

	"github.com/skillsenselab/scribe/transcript"
	"github.com/skillsenselab/scribe/transcription"
)

// Words merges consecutive same-speaker words into segments. Segment text
// is the words' trimmed texts joined by single spaces; segment bounds are
// the first word's start and the last word's end. Zero words yield zero
// segments. Micro-gaps equal to inter-word silence are kept, not corrected.
func Words(words []transcript.Word) []transcript.Segment {
	if len(words) == 0 {
		return nil
	}

	var out []transcript.Segment
	run := []transcript.Word{words[0]}
	for _, word := range words[1:] {
		if word.Speaker != run[0].Speaker {
			out = append(out, closeRun(run))
			run = run[:0]
		}
		run = append(run, word)
	}
	return append(out, closeRun(run))
}

// ByTurns resolves word speakers from external turns by containment, then
// applies the same merge rule.
func ByTurns(turns []transcript.Turn, words []transcript.Word) []transcript.Segment {
	AssignByTurns(words, turns)
	return Words(words)
}

// Segments re-segments transcription output against external turns. A
// transcription segment with word timestamps is split on speaker changes
// word by word; one without is attributed whole, by its own midpoint.
func Segments(turns []transcript.Turn, segs []transcription.Segment) []transcript.Segment {
	var out []transcript.Segment
	for _, seg := range segs {
		if len(seg.Words) == 0 {
			out = append(out, transcript.Segment{
				Text:    strings.TrimSpace(seg.Text),
				Start:   seg.Start,
				End:     seg.End,
				Speaker: speakerAt((seg.Start+seg.End)/2, turns),
			})
			continue
		}
		out = append(out, ByTurns(turns, seg.Words)...)
	}
	return out
}

// closeRun builds one segment from a non-empty same-speaker run.
func closeRun(run []transcript.Word) transcript.Segment {
	texts := make([]string, len(run))
	for i, w := range run {
		texts[i] = strings.TrimSpace(w.Text)
	}
	return transcript.Segment{
		Text:    strings.Join(texts, " "),
		Start:   run[0].Start,
		End:     run[len(run)-1].End,
		Speaker: run[0].Speaker,
	}
}
