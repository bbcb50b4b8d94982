package speech

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini speech model ids.
var geminiModels = map[string]string{
	"gemini-tts":     "gemini-2.5-flash-preview-tts",
	"gemini-tts-pro": "gemini-2.5-pro-preview-tts",
}

// Gemini speech models answer with raw 16-bit little-endian mono PCM.
const (
	geminiSampleRate = 24000
	geminiChannels   = 1
	geminiBitDepth   = 16
)

// GeminiEngine implements Engine using the Gemini API audio modality.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine creates a new Gemini engine.
func NewGeminiEngine(ctx context.Context, cfg GeminiConfig) (*GeminiEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiEngine{
		client: client,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (e *GeminiEngine) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: req.Voice.GeminiVoice,
				},
			},
		},
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(geminiPrompt(req)), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	pcm := geminiAudio(result)
	if len(pcm) == 0 {
		return nil, &ErrEmptyAudio{Engine: e.Name()}
	}
	return &Audio{
		Data:   wrapPCM(pcm, geminiSampleRate, geminiChannels, geminiBitDepth),
		Format: FormatWAV,
	}, nil
}

func (e *GeminiEngine) Name() string {
	return "gemini/" + e.model
}

// geminiPrompt folds the delivery style and pace into the prompt, since the
// audio modality has no rate parameter.
func geminiPrompt(req Request) string {
	var b strings.Builder
	style := req.Voice.Style
	if style == "" {
		style = "Say this"
	}
	b.WriteString(style)
	switch {
	case req.Rate > 0 && req.Rate < 0.7:
		b.WriteString(", very slowly and clearly")
	case req.Rate > 0 && req.Rate < 0.9:
		b.WriteString(", slowly and clearly")
	}
	b.WriteString(": ")
	b.WriteString(req.Text)
	return b.String()
}

func geminiAudio(result *genai.GenerateContentResponse) []byte {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil
	}
	var pcm []byte
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	return pcm
}

func mapGeminiError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}
