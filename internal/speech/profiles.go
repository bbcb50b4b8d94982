package speech

import "fmt"

// Profile is a named voice configuration. Stories refer to profiles by Key.
type Profile struct {
	Key   string
	Label string

	// OpenAIVoice is the go-openai voice id.
	OpenAIVoice string

	// GeminiVoice is the prebuilt Gemini voice name.
	GeminiVoice string

	// Style is prepended as a delivery instruction for engines that take one.
	Style string

	// BaseRate scales every utterance spoken with this profile.
	BaseRate float64
}

var profiles = map[string]Profile{
	"storyteller": {
		Key:         "storyteller",
		Label:       "Warm storyteller",
		OpenAIVoice: "fable",
		GeminiVoice: "Sulafat",
		Style:       "Read this warmly, like a bedtime story for a child",
		BaseRate:    0.95,
	},
	"coach": {
		Key:         "coach",
		Label:       "Encouraging coach",
		OpenAIVoice: "nova",
		GeminiVoice: "Kore",
		Style:       "Say this in a clear, encouraging voice",
		BaseRate:    1.0,
	},
	"mission-control": {
		Key:         "mission-control",
		Label:       "Mission Control",
		OpenAIVoice: "onyx",
		GeminiVoice: "Charon",
		Style:       "Say this calmly, like a mission controller on the radio",
		BaseRate:    1.0,
	},
}

// LookupProfile resolves a profile key.
func LookupProfile(key string) (Profile, error) {
	p, ok := profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("unknown voice profile %q", key)
	}
	return p, nil
}

// ProfileKeys returns the known profile keys.
func ProfileKeys() []string {
	return []string{"coach", "mission-control", "storyteller"}
}
