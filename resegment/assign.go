package resegment

import "github.com/skillsenselab/scribe/transcript"

// AssignByTurns labels each word with the speaker of the first turn, in the
// turns' original order, whose span contains the word's midpoint. Words
// contained by no turn are left with the unknown speaker. Words are
// relabeled in place.
func AssignByTurns(words []transcript.Word, turns []transcript.Turn) {
	for i := range words {
		words[i].Speaker = speakerAt(words[i].Midpoint(), turns)
	}
}

// speakerAt resolves the speaker at a point in time: first containing turn
// wins, tolerating overlapping turns.
func speakerAt(at float64, turns []transcript.Turn) string {
	for _, turn := range turns {
		if turn.Contains(at) {
			return turn.Speaker
		}
	}
	return transcript.SpeakerUnknown
}
