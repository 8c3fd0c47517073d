package wavlm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skillsenselab/scribe/embedding"
	"github.com/skillsenselab/scribe/provider"
	"github.com/skillsenselab/scribe/resilience"
)

const (
	// ProviderName is the registered name for the WavLM embedding provider.
	ProviderName = "wavlm"

	defaultWavLMURL     = "http://localhost:8389"
	defaultWavLMTimeout = 60 * time.Second

	embedAttempts = 2
	embedBackoff  = 200 * time.Millisecond
)

// Config holds configuration for the WavLM embedding provider.
type Config struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements embedding.Provider using a WavLM x-vector HTTP
// sidecar. The sidecar shares a filesystem with this process and loads the
// excerpt itself, so only the path and bounds travel over the wire.
// Transport failures are retried once before the window is given up on;
// errors the sidecar reports about the excerpt itself are not.
type Provider struct {
	cfg    Config
	client *http.Client
	retry  resilience.RetryConfig
}

// NewProvider creates a new WavLM embedding provider.
func NewProvider(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = defaultWavLMURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWavLMTimeout
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		retry: resilience.RetryConfig{
			MaxAttempts:    embedAttempts,
			InitialBackoff: embedBackoff,
		},
	}
}

// Factory returns a provider.Factory that creates WavLM Provider instances
// from a generic config map.
func Factory() provider.Factory[embedding.Provider] {
	return func(cfg map[string]any) (embedding.Provider, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			wc.Timeout = v
		}
		return NewProvider(wc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the WavLM sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"/health", nil)
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

// Extract requests a speaker embedding for one audio excerpt.
func (p *Provider) Extract(ctx context.Context, req embedding.Request) ([]float64, error) {
	body, err := json.Marshal(embedRequest{
		AudioPath: req.AudioPath,
		Start:     req.Start,
		End:       req.End,
	})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	result, err := resilience.Retry(ctx, p.retry, func() (*embedResponse, error) {
		return p.post(ctx, body)
	})
	if err != nil {
		return nil, err
	}

	if result.Error != "" {
		return nil, fmt.Errorf("wavlm error: %s", result.Error)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("wavlm returned empty embedding")
	}
	return result.Embedding, nil
}

// post performs one /embed exchange. Only transport-level failures come
// back as errors here; sidecar-reported problems travel in the response.
func (p *Provider) post(ctx context.Context, body []byte) (*embedResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("wavlm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("wavlm error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode wavlm response: %w", err)
	}
	return &result, nil
}

// --- internal WavLM API types ---

type embedRequest struct {
	AudioPath string  `json:"audio_path"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}
