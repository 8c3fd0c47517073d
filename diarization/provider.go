package diarization

import (
	"context"

	"github.com/skillsenselab/scribe/provider"
)

// Provider is the interface that diarization backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Diarize produces a speaker signal for the file.
	Diarize(ctx context.Context, req Request) (*Response, error)
}
