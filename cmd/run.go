package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/listenquest/internal/app"
	"github.com/abhisek/listenquest/internal/config"
	"github.com/abhisek/listenquest/internal/logger"
	"github.com/abhisek/listenquest/internal/narration"
	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/speech"
	"github.com/abhisek/listenquest/internal/store"
	"github.com/abhisek/listenquest/internal/telemetry"
	"github.com/spf13/cobra"
)

// runtime bundles what every interactive command needs.
type runtime struct {
	cfg      config.Config
	log      *logger.Logger
	store    *store.Store
	shutdown func(context.Context) error
}

// setup loads config and opens the logger, tracing and the store.
func setup(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		logPath = filepath.Join(dir, "listenquest.log")
	}
	log, err := logger.New(cfg.LogMode, logPath)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(cmd.Context(), cfg.OTelEndpoint, version)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	log.Info("starting", "version", version, "db", dbPath, "user", cfg.User)
	return &runtime{cfg: cfg, log: log, store: st, shutdown: shutdown}, nil
}

func (r *runtime) Close() {
	if err := r.shutdown(context.Background()); err != nil {
		r.log.Warn("flush traces", "error", err)
	}
	if err := r.store.Close(); err != nil {
		r.log.Warn("close store", "error", err)
	}
	r.log.Sync()
}

// newSynthesizer builds the speech stack from the environment. Any failure
// degrades to Silent, with a note for the learner.
func (r *runtime) newSynthesizer(ctx context.Context) (speech.Synthesizer, string) {
	cfg, err := speech.ConfigFromEnv()
	if err != nil {
		r.log.Warn("speech config", "error", err)
		return speech.Silent{}, "Speech settings are invalid. Reading mode is on."
	}
	if cfg.Provider == "none" {
		return speech.Silent{}, "No speech provider set. Reading mode is on."
	}
	synth, err := speech.NewSynthesizer(ctx, cfg, r.store.EventRepo(), r.log)
	if err != nil {
		r.log.Warn("speech unavailable", "provider", cfg.Provider, "error", err)
		return speech.Silent{}, "Speech is unavailable. Reading mode is on."
	}
	return synth, ""
}

// runApp builds dependencies and launches the TUI. A non-nil story opens
// directly.
func runApp(cmd *cobra.Command, start *script.Story) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	speed, err := narration.ParseSpeed(rt.cfg.Speed)
	if err != nil {
		return err
	}

	registry, err := script.Builtin()
	if err != nil {
		return fmt.Errorf("load stories: %w", err)
	}
	stories := registry.List()
	if start != nil {
		if _, ok := registry.Get(start.ID); !ok {
			stories = append(stories, start)
		}
	}

	synth, note := rt.newSynthesizer(cmd.Context())
	if note != "" {
		fmt.Fprintln(os.Stderr, note)
	}

	return app.Run(app.Options{
		Stories:        stories,
		Repo:           rt.store.EventRepo(),
		Synth:          synth,
		SpeechNote:     note,
		Log:            rt.log,
		Learner:        rt.cfg.User,
		Speed:          speed,
		EnforceReplays: rt.cfg.EnforceReplays,
		StartStory:     start,
	})
}
