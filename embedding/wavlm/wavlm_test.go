package wavlm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skillsenselab/scribe/embedding"
)

func TestProvider_Extract_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.AudioPath != "/audio/a.wav" || req.Start != 1.0 || req.End != 2.0 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	vec, err := p.Extract(context.Background(), embedding.Request{AudioPath: "/audio/a.wav", Start: 1.0, End: 2.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[1] != 0.2 {
		t.Errorf("unexpected embedding: %v", vec)
	}
}

func TestProvider_Extract_SidecarError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Error: "excerpt too short"})
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	if _, err := p.Extract(context.Background(), embedding.Request{AudioPath: "a.wav"}); err == nil {
		t.Error("expected error from sidecar error field")
	}
}

func TestProvider_Extract_EmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	if _, err := p.Extract(context.Background(), embedding.Request{AudioPath: "a.wav"}); err == nil {
		t.Error("expected error for empty embedding")
	}
}

func TestProvider_Extract_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	if _, err := p.Extract(context.Background(), embedding.Request{AudioPath: "a.wav"}); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestProvider_Extract_RetriesTransportFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.5}})
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	vec, err := p.Extract(context.Background(), embedding.Request{AudioPath: "a.wav"})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if len(vec) != 1 {
		t.Errorf("unexpected embedding: %v", vec)
	}
}

func TestProvider_Extract_SidecarErrorNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		json.NewEncoder(w).Encode(embedResponse{Error: "excerpt too short"})
	}))
	defer srv.Close()

	p := NewProvider(Config{URL: srv.URL})
	if _, err := p.Extract(context.Background(), embedding.Request{AudioPath: "a.wav"}); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("sidecar-reported errors must not be retried, got %d attempts", attempts)
	}
}

func TestProvider_IsAvailable_Down(t *testing.T) {
	p := NewProvider(Config{URL: "http://localhost:1"})
	if p.IsAvailable(context.Background()) {
		t.Error("expected provider to be unavailable")
	}
}
