package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openAIModels maps friendly names to OpenAI speech model ids.
var openAIModels = map[string]string{
	"tts":      string(openai.TTSModel1),
	"tts-hd":   string(openai.TTSModel1HD),
	"tts-mini": "gpt-4o-mini-tts",
}

// OpenAI speed bounds accepted by the speech endpoint.
const (
	openAIMinSpeed = 0.25
	openAIMaxSpeed = 4.0
)

// OpenAIEngine implements Engine using the OpenAI speech endpoint.
type OpenAIEngine struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine creates a new OpenAI engine.
func NewOpenAIEngine(cfg OpenAIConfig) (*OpenAIEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIEngine{
		client: openai.NewClientWithConfig(config),
		model:  resolveModel(cfg.Model, openAIModels),
	}, nil
}

func (e *OpenAIEngine) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	voice := req.Voice.OpenAIVoice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}

	sreq := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          clampSpeed(req.Rate),
	}
	// The tts-1 family rejects delivery instructions.
	if req.Voice.Style != "" && e.model != string(openai.TTSModel1) && e.model != string(openai.TTSModel1HD) {
		sreq.Instructions = req.Voice.Style
	}

	resp, err := e.client.CreateSpeech(ctx, sreq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read speech body: %w", err)}
	}
	if len(data) == 0 {
		return nil, &ErrEmptyAudio{Engine: e.Name()}
	}
	return &Audio{Data: data, Format: FormatMP3}, nil
}

func (e *OpenAIEngine) Name() string {
	return "openai/" + e.model
}

func clampSpeed(rate float64) float64 {
	switch {
	case rate <= 0:
		return 1.0
	case rate < openAIMinSpeed:
		return openAIMinSpeed
	case rate > openAIMaxSpeed:
		return openAIMaxSpeed
	}
	return rate
}

func mapOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
