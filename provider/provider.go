package provider

import "context"

// Provider is the common surface of the engine's sidecar-backed
// backends. Name identifies the backend in logs and priority lists.
// IsAvailable is a cheap reachability check, typically a health-endpoint
// hit, that the fallback policy runs before committing work to a backend.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// Factory builds a backend from the loose key/value form a config-file
// section reduces to. Unknown keys are ignored; missing keys fall back to
// the backend's defaults.
type Factory[T Provider] func(cfg map[string]any) (T, error)
