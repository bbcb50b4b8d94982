package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiEngine(t *testing.T, handler http.HandlerFunc) *GeminiEngine {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	e, err := NewGeminiEngine(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-tts",
		BaseURL: server.URL + "/",
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestGeminiEngine_HappyPath(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	var body string
	handler := func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash-preview-tts:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{{
						"inlineData": map[string]any{
							"mimeType": "audio/L16;codec=pcm;rate=24000",
							"data":     base64.StdEncoding.EncodeToString(pcm),
						},
					}},
				},
				"finishReason": "STOP",
			}},
		})
	}

	e := newTestGeminiEngine(t, handler)
	voice, _ := LookupProfile("mission-control")
	audio, err := e.Synthesize(context.Background(), Request{Text: "Ignition sequence start", Voice: voice, Rate: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if audio.Format != FormatWAV {
		t.Fatalf("format = %q", audio.Format)
	}
	if !bytes.HasPrefix(audio.Data, []byte("RIFF")) || !bytes.HasSuffix(audio.Data, pcm) {
		t.Fatalf("expected WAV-wrapped PCM, got %v", audio.Data)
	}
	for _, want := range []string{`"AUDIO"`, `"Charon"`, "Ignition sequence start"} {
		if !strings.Contains(body, want) {
			t.Errorf("request body missing %s: %s", want, body)
		}
	}
}

func TestGeminiEngine_NoAudio(t *testing.T) {
	e := newTestGeminiEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hello"}]}}]}`))
	})
	_, err := e.Synthesize(context.Background(), Request{Text: "x"})
	var empty *ErrEmptyAudio
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestGeminiEngine_RateLimit(t *testing.T) {
	e := newTestGeminiEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	})
	_, err := e.Synthesize(context.Background(), Request{Text: "x"})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-tts", "gemini-2.5-flash-preview-tts"},
		{"gemini-tts-pro", "gemini-2.5-pro-preview-tts"},
		{"gemini-2.5-flash-preview-tts", "gemini-2.5-flash-preview-tts"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiPromptPace(t *testing.T) {
	voice := Profile{Style: "Say this warmly"}
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "Say this warmly: hi"},
		{0.8, "Say this warmly, slowly and clearly: hi"},
		{0.5, "Say this warmly, very slowly and clearly: hi"},
	}
	for _, tt := range tests {
		if got := geminiPrompt(Request{Text: "hi", Voice: voice, Rate: tt.rate}); got != tt.want {
			t.Errorf("rate %v: got %q, want %q", tt.rate, got, tt.want)
		}
	}
	if got := geminiPrompt(Request{Text: "hi"}); got != "Say this: hi" {
		t.Errorf("no style: got %q", got)
	}
}
