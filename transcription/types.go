package transcription

import "github.com/skillsenselab/scribe/transcript"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is the expected language of the audio (e.g. "en").
	// Empty lets the backend detect it.
	Language string `json:"language,omitempty"`
	// Model is the transcription model to use.
	Model string `json:"model,omitempty"`
	// BeamSize is the decoding beam size (0 = backend default).
	BeamSize int `json:"beam_size,omitempty"`
	// VADFilter enables voice-activity filtering of silence.
	VADFilter bool `json:"vad_filter,omitempty"`
	// MinSilenceMS is the minimum silence duration for the VAD filter.
	MinSilenceMS int `json:"min_silence_ms,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments with their words.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Words are the word tokens of this segment, in chronological order.
	// May be empty when the backend could not align words.
	Words []transcript.Word `json:"words,omitempty"`
}

// AllWords flattens the word tokens of all segments, preserving order.
func (r *Response) AllWords() []transcript.Word {
	var words []transcript.Word
	for _, seg := range r.Segments {
		words = append(words, seg.Words...)
	}
	return words
}
