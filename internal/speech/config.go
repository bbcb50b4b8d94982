package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/listenquest/internal/config"
)

// Config holds all speech configuration.
type Config struct {
	// Provider selects the engine.
	// Values: "openai", "gemini", "mock", "none". Empty means discover
	// from the standard API key variables.
	Provider string `env:"LISTENQUEST_SPEECH_PROVIDER"`

	OpenAI OpenAIConfig
	Gemini GeminiConfig
	Retry  RetryConfig

	// Player is the command line used to play clips.
	Player string `env:"LISTENQUEST_PLAYER" envDefault:"ffplay -nodisp -autoexit -loglevel quiet"`

	// CacheDir holds rendered clips. Empty disables the cache.
	CacheDir string `env:"LISTENQUEST_AUDIO_CACHE"`

	// Timeout bounds a single synthesis request, including retries.
	Timeout time.Duration `env:"LISTENQUEST_SPEECH_TIMEOUT" envDefault:"30s"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"LISTENQUEST_OPENAI_API_KEY"`
	Model   string `env:"LISTENQUEST_OPENAI_MODEL" envDefault:"tts-mini"`
	BaseURL string `env:"LISTENQUEST_OPENAI_BASE_URL"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `env:"LISTENQUEST_GEMINI_API_KEY"`
	Model   string `env:"LISTENQUEST_GEMINI_MODEL" envDefault:"gemini-tts"`
	BaseURL string `env:"LISTENQUEST_GEMINI_BASE_URL"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"LISTENQUEST_SPEECH_RETRIES" envDefault:"3"`
	InitialWait time.Duration `env:"LISTENQUEST_SPEECH_RETRY_WAIT" envDefault:"500ms"`
	MaxWait     time.Duration `env:"LISTENQUEST_SPEECH_RETRY_MAX_WAIT" envDefault:"5s"`
	Multiplier  float64       `env:"LISTENQUEST_SPEECH_RETRY_MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns a Config with sensible defaults and no provider.
func DefaultConfig() Config {
	return Config{
		Provider: "none",
		OpenAI:   OpenAIConfig{Model: "tts-mini"},
		Gemini:   GeminiConfig{Model: "gemini-tts"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Player:  DefaultPlayerCommand,
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from LISTENQUEST_* variables. When no
// provider is named it falls back to DiscoverConfig, and to "none" when no
// key is found either.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Provider != "" {
		return cfg, nil
	}

	switch {
	case cfg.Gemini.APIKey != "":
		cfg.Provider = "gemini"
	case cfg.OpenAI.APIKey != "":
		cfg.Provider = "openai"
	default:
		if found, ok := DiscoverConfig(); ok {
			cfg.Provider = found.Provider
			cfg.Gemini.APIKey = found.Gemini.APIKey
			cfg.OpenAI.APIKey = found.OpenAI.APIKey
		} else {
			cfg.Provider = "none"
		}
	}
	return cfg, nil
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI) and returns a Config for the first provider whose key
// is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("LISTENQUEST_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("LISTENQUEST_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock", "none":
		// No API key needed.
	default:
		return fmt.Errorf("unknown speech provider: %q", c.Provider)
	}
	if c.Provider != "none" && c.Player == "" {
		return fmt.Errorf("LISTENQUEST_PLAYER must not be empty")
	}
	return nil
}

// DefaultCacheDir returns the clip cache under the user cache directory.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "listenquest", "audio")
	}
	return filepath.Join(os.TempDir(), "listenquest-audio")
}
