package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/listenquest/internal/narration"
	"github.com/abhisek/listenquest/internal/speech"
	"github.com/spf13/cobra"
)

var errSpeechUnavailable = errors.New("speech is not available")

var speakCmd = &cobra.Command{
	Use:   "speak TEXT",
	Short: "Narrate one line through the configured speech stack",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		voiceKey, _ := cmd.Flags().GetString("voice")
		speedVal, _ := cmd.Flags().GetString("speed")

		voice, err := speech.LookupProfile(voiceKey)
		if err != nil {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(speech.ProfileKeys(), ", "))
		}
		speed, err := narration.ParseSpeed(speedVal)
		if err != nil {
			return err
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		synth, note := rt.newSynthesizer(ctx)
		narrator := narration.NewOrchestrator(synth, rt.log)
		defer narrator.Shutdown()
		if !narrator.Init(ctx) {
			if note != "" {
				return fmt.Errorf("%w: %s", errSpeechUnavailable, note)
			}
			return errSpeechUnavailable
		}
		narrator.SetSpeed(speed)

		return narrator.Narrate(ctx, strings.Join(args, " "), voice)
	},
}

func init() {
	// speak has its own --speed; the persistent one only seeds the TUI.
	speakCmd.Flags().String("voice", "storyteller", "Voice profile key")
	speakCmd.Flags().String("speed", string(narration.SpeedNormal), "Narration speed: normal, slow or slower")
}
