package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	fs := &mockFS{}
	cfg, err := Load(WithFileSystem(fs))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Name != "scribe" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
	if cfg.Transcription.BaseURL != "http://localhost:8387" {
		t.Errorf("unexpected transcription url: %s", cfg.Transcription.BaseURL)
	}
	if cfg.Transcription.BeamSize != 5 || !cfg.Transcription.VADFilter || cfg.Transcription.MinSilenceMS != 100 {
		t.Errorf("unexpected transcription defaults: %+v", cfg.Transcription)
	}
	if cfg.Diarization.WindowSize != 1.0 || cfg.Diarization.WindowStride != 0.5 {
		t.Errorf("unexpected window defaults: %+v", cfg.Diarization)
	}
	if cfg.Output.Format != "with_timestamps" || cfg.Output.Dir != "." {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
name: meeting-scribe
transcription:
  model: small
  language: en
diarization:
  enabled: true
  requested_speakers: 3
output:
  format: plain_text
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "meeting-scribe" {
		t.Errorf("expected yaml name, got %q", cfg.Name)
	}
	if cfg.Transcription.Model != "small" || cfg.Transcription.Language != "en" {
		t.Errorf("unexpected transcription config: %+v", cfg.Transcription)
	}
	if !cfg.Diarization.Enabled || cfg.Diarization.RequestedSpeakers != 3 {
		t.Errorf("unexpected diarization config: %+v", cfg.Diarization)
	}
	if cfg.Output.Format != "plain_text" {
		t.Errorf("unexpected output format: %s", cfg.Output.Format)
	}
	// Untouched fields keep defaults.
	if cfg.Diarization.WindowSize != 1.0 {
		t.Errorf("expected default window size, got %v", cfg.Diarization.WindowSize)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCRIBE_DIARIZATION_REQUESTED_SPEAKERS", "4")
	t.Setenv("SCRIBE_OUTPUT_FORMAT", "plain_text")

	cfg, err := Load(WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Diarization.RequestedSpeakers != 4 {
		t.Errorf("expected env override, got %d", cfg.Diarization.RequestedSpeakers)
	}
	if cfg.Output.Format != "plain_text" {
		t.Errorf("expected env override, got %s", cfg.Output.Format)
	}
}

func TestLoad_InvalidFormatRejected(t *testing.T) {
	t.Setenv("SCRIBE_OUTPUT_FORMAT", "srt")

	_, err := Load(WithFileSystem(&mockFS{}))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_Validate_StrideMustNotExceedSize(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Diarization.WindowSize = 0.4
	cfg.Diarization.WindowStride = 0.5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "window_stride") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true, "explicit.yml": true}}

	if got := resolveFile(fs, "explicit.yml", configSearchPaths); got != "explicit.yml" {
		t.Errorf("explicit path must win, got %q", got)
	}
	if got := resolveFile(fs, "", configSearchPaths); got != "./config.yml" {
		t.Errorf("expected first existing candidate, got %q", got)
	}
	if got := resolveFile(fs, "missing.yml", configSearchPaths); got != "" {
		t.Errorf("missing explicit path must yield empty, got %q", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("DIARIZATION_WINDOW_SIZE")
	want := map[string]bool{
		"diarization_window_size": false,
		"diarization.window.size": false,
		"diarization.window_size": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("missing variant %s in %v", k, variants)
		}
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
