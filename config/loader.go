package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file operations the loader needs, so tests
// can run without touching disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// configSearchPaths are tried in order when no explicit config file is
// given.
var configSearchPaths = []string{
	"./config.yml",
	"./cmd/scribe/config.yml",
	"./config/config.yml",
}

// envSearchPaths are tried in order when no explicit .env file is given.
var envSearchPaths = []string{
	".env.scribe",
	".env",
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads the configuration from config.yml, .env, and environment
// variables (in increasing precedence), applies defaults, and validates
// the result. Missing files are fine; the defaults stand alone.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	v := viper.New()

	if path := resolveFile(lc.FileSystem, lc.ConfigFile, configSearchPaths); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if path := resolveFile(lc.FileSystem, lc.EnvFile, envSearchPaths); path != "" {
		if err := lc.FileSystem.LoadEnv(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v, "SCRIBE_")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveFile returns the explicit path when set, otherwise the first
// existing candidate, otherwise "".
func resolveFile(fs FileSystem, explicit string, candidates []string) string {
	if explicit != "" {
		if fs.Exists(explicit) {
			return explicit
		}
		return ""
	}
	for _, path := range candidates {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// bindEnvVars maps prefixed environment variables onto nested config
// keys. SCRIBE_DIARIZATION_WINDOW_SIZE binds to every plausible nesting
// of the underscore-separated name, so both diarization.window_size and
// diarization.window.size resolve.
func bindEnvVars(v *viper.Viper, prefix string) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) {
			continue
		}

		key := strings.TrimPrefix(pair[0], prefix)
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants generates nested key spellings for an underscore name.
//
//	DIARIZATION_WINDOW_SIZE -> [diarization_window_size,
//	  diarization.window.size, diarization.window_size,
//	  diarization.window.size... deduplicated]
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	out := make([]string, 0, len(variants))
	for _, variant := range variants {
		if !seen[variant] {
			seen[variant] = true
			out = append(out, variant)
		}
	}
	return out
}
