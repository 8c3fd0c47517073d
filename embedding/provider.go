package embedding

import (
	"context"

	"github.com/skillsenselab/scribe/provider"
)

// Request identifies one audio excerpt to embed.
type Request struct {
	// AudioPath is the path to the audio file.
	AudioPath string `json:"audio_path"`
	// Start is the excerpt start time in seconds.
	Start float64 `json:"start"`
	// End is the excerpt end time in seconds.
	End float64 `json:"end"`
}

// Provider is the interface that embedding backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Extract returns a fixed-length speaker embedding for the excerpt.
	// The vector is not normalized; callers decide the norm they need.
	Extract(ctx context.Context, req Request) ([]float64, error)
}
