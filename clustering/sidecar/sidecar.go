package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultClusterURL     = "http://localhost:8390"
	defaultClusterTimeout = 120 * time.Second
)

// Config holds configuration for the clustering sidecar client.
type Config struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Client implements clustering.Clusterer against an HTTP sidecar running
// agglomerative clustering with cosine distance and average linkage.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a new clustering sidecar client.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = defaultClusterURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultClusterTimeout
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// IsAvailable checks if the clustering sidecar is reachable.
func (c *Client) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Cluster partitions the vectors into k groups.
func (c *Client) Cluster(ctx context.Context, vectors [][]float64, k int) ([]int, error) {
	body, err := json.Marshal(clusterRequest{
		Features:  vectors,
		NClusters: k,
		Metric:    "cosine",
		Linkage:   "average",
	})
	if err != nil {
		return nil, fmt.Errorf("encode cluster request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/cluster", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cluster request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cluster error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result clusterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode cluster response: %w", err)
	}
	if len(result.Labels) != len(vectors) {
		return nil, fmt.Errorf("cluster returned %d labels for %d vectors", len(result.Labels), len(vectors))
	}

	return result.Labels, nil
}

// --- internal clustering API types ---

type clusterRequest struct {
	Features  [][]float64 `json:"features"`
	NClusters int         `json:"n_clusters"`
	Metric    string      `json:"metric"`
	Linkage   string      `json:"linkage"`
}

type clusterResponse struct {
	Labels []int `json:"labels"`
}
