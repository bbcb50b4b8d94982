package speech

import (
	"context"
	"testing"
	"time"
)

func clearSpeechEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LISTENQUEST_SPEECH_PROVIDER", "LISTENQUEST_OPENAI_API_KEY", "LISTENQUEST_GEMINI_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "LISTENQUEST_PLAYER", "LISTENQUEST_AUDIO_CACHE",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearSpeechEnv(t)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Provider != "none" {
		t.Errorf("Provider = %q, want none", cfg.Provider)
	}
	if cfg.Player != DefaultPlayerCommand {
		t.Errorf("Player = %q", cfg.Player)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.InitialWait != 500*time.Millisecond || cfg.Timeout != 30*time.Second {
		t.Errorf("unexpected retry defaults: %+v timeout=%s", cfg.Retry, cfg.Timeout)
	}
	if cfg.OpenAI.Model != "tts-mini" || cfg.Gemini.Model != "gemini-tts" {
		t.Errorf("unexpected model defaults: %q %q", cfg.OpenAI.Model, cfg.Gemini.Model)
	}
}

func TestConfigFromEnv_Discovery(t *testing.T) {
	clearSpeechEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-openai" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, _ = ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("gemini should win discovery: %+v", cfg)
	}
}

func TestConfigFromEnv_ExplicitProvider(t *testing.T) {
	clearSpeechEnv(t)
	t.Setenv("LISTENQUEST_SPEECH_PROVIDER", "mock")
	t.Setenv("GEMINI_API_KEY", "ignored")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Provider != "mock" {
		t.Fatalf("Provider = %q, want mock", cfg.Provider)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{Provider: "none"}, false},
		{"mock", Config{Provider: "mock", Player: "ffplay"}, false},
		{"openai without key", Config{Provider: "openai", Player: "ffplay"}, true},
		{"gemini with key", Config{Provider: "gemini", Player: "ffplay", Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"empty player", Config{Provider: "mock"}, true},
		{"unknown", Config{Provider: "espeak"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSynthesizer(t *testing.T) {
	s, err := NewSynthesizer(context.Background(), Config{Provider: "none"}, nil, nil)
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := s.(Silent); !ok {
		t.Fatalf("expected Silent, got %T", s)
	}

	cfg := DefaultConfig()
	cfg.Provider = "mock"
	cfg.CacheDir = t.TempDir()
	s, err = NewSynthesizer(context.Background(), cfg, &fakeEventRepo{}, nil)
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	if _, ok := s.(*EngineSynthesizer); !ok {
		t.Fatalf("expected *EngineSynthesizer, got %T", s)
	}

	if _, err := NewSynthesizer(context.Background(), Config{Provider: "openai", Player: "ffplay"}, nil, nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewEngine_MiddlewareOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	cfg.CacheDir = t.TempDir()
	repo := &fakeEventRepo{}

	e, err := NewEngine(context.Background(), cfg, repo, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if e.Name() != "mock" {
		t.Errorf("Name() = %q", e.Name())
	}
	for range 2 {
		if _, err := e.Synthesize(context.Background(), Request{Text: "hi"}); err != nil {
			t.Fatalf("synthesize: %v", err)
		}
	}
	if len(repo.events) != 2 || !repo.events[1].Cached {
		t.Fatalf("expected the second request logged as cached: %+v", repo.events)
	}
}
