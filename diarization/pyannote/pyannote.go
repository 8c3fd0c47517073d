// Package pyannote implements speaker diarization through an external
// turn-level diarization pipeline behind an HTTP sidecar. The pipeline
// needs a Hugging Face credential and reports ordered speaker turns.
package pyannote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/skillsenselab/scribe/diarization"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/provider"
	"github.com/skillsenselab/scribe/transcript"
)

const (
	// ProviderName is the registered name for the Pyannote provider.
	ProviderName = "pyannote"

	defaultPyannoteURL     = "http://localhost:8388"
	defaultPyannoteTimeout = 600 * time.Second
)

// Config holds configuration for the Pyannote diarization provider.
type Config struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	// AuthToken is the Hugging Face access token the pipeline needs.
	// Without it the provider reports itself unavailable.
	AuthToken string        `json:"auth_token" yaml:"auth_token"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements diarization.Provider using the Pyannote HTTP sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger
}

// NewProvider creates a new Pyannote diarization provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultPyannoteURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultPyannoteTimeout
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: logger.Get("diarization.pyannote"),
	}
}

// Factory returns a provider.Factory that creates Pyannote Provider
// instances from a generic config map.
func Factory() provider.Factory[diarization.Provider] {
	return func(cfg map[string]any) (diarization.Provider, error) {
		pc := Config{}
		if v, ok := cfg["base_url"].(string); ok {
			pc.BaseURL = v
		}
		if v, ok := cfg["auth_token"].(string); ok {
			pc.AuthToken = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			pc.Timeout = v
		}
		return NewProvider(pc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the credential is present and the sidecar is
// reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	if p.cfg.AuthToken == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Diarize sends audio to the Pyannote sidecar and returns the speaker turns
// it reports, in their original order. Zero turns or a single distinct
// speaker are logged as likely pipeline failures but still returned; the
// caller decides whether that counts as success.
func (p *Provider) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	audioData, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	if req.RequestedSpeakers > 0 {
		_ = writer.WriteField("num_speakers", fmt.Sprintf("%d", req.RequestedSpeakers))
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/diarize", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.AuthToken)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("diarization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("diarization error (status %d): %s", resp.StatusCode, string(body))
	}

	var result pyannoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode diarization response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("diarization error: %s", result.Error)
	}

	turns := make([]transcript.Turn, len(result.Turns))
	distinct := make(map[string]struct{})
	for i, t := range result.Turns {
		turns[i] = transcript.Turn{
			Start:   t.StartTime,
			End:     t.EndTime,
			Speaker: t.SpeakerID,
		}
		distinct[t.SpeakerID] = struct{}{}
	}

	switch {
	case len(turns) == 0:
		p.log.Warn("pipeline reported no speaker turns")
	case len(distinct) == 1:
		p.log.Warn("pipeline detected a single distinct speaker, diarization may have failed")
	}

	return &diarization.Response{
		Result:      transcript.TurnIntervals(turns),
		NumSpeakers: len(distinct),
	}, nil
}

// --- internal Pyannote API types ---

type pyannoteResponse struct {
	Turns []pyannoteTurn `json:"turns"`
	Error string         `json:"error,omitempty"`
}

type pyannoteTurn struct {
	SpeakerID string  `json:"speaker_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}
