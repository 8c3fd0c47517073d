package diarization

import "github.com/skillsenselab/scribe/transcript"

// Request holds parameters for a diarization call.
type Request struct {
	// AudioPath is the path to the audio file to diarize.
	AudioPath string `json:"audio_path"`
	// Words is the chronologically ordered word stream of the file.
	// Backends that label words directly mutate the Speaker field in place.
	Words []transcript.Word `json:"-"`
	// RequestedSpeakers is the exact number of speakers (0 = auto-detect).
	RequestedSpeakers int `json:"requested_speakers,omitempty"`
}

// Response holds the result of a diarization call.
type Response struct {
	// Result carries the speaker signal in one of its closed variants.
	Result transcript.Result `json:"-"`
	// NumSpeakers is the number of distinct speakers detected.
	NumSpeakers int `json:"num_speakers"`
}
