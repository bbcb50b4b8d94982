package speech

import "context"

// Audio formats produced by engines. The format doubles as the file
// extension of cached clips.
const (
	FormatMP3 = "mp3"
	FormatWAV = "wav"
)

// Engine turns text into an audio clip. Engines do not play anything; the
// EngineSynthesizer hands their output to a Player.
type Engine interface {
	// Synthesize renders req as audio.
	Synthesize(ctx context.Context, req Request) (*Audio, error)

	// Name identifies the engine in logs and speech events.
	Name() string
}

// Request describes one utterance to render.
type Request struct {
	Text  string
	Voice Profile

	// Rate is the playback rate multiplier, already scaled by the profile's
	// BaseRate.
	Rate float64
}

// Audio is a rendered clip. Either Data or Path is set: engines return
// Data, the cache layer returns Path once the clip is on disk.
type Audio struct {
	Data   []byte
	Format string
	Path   string

	// Cached is true when the clip was served from the audio cache.
	Cached bool
}

// resolveModel maps a friendly model name to a provider model id, passing
// unknown names through unchanged.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
