package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/listenquest/internal/script"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play STORY",
	Short: "Jump straight into a story",
	Long:  "Start a story by id (see `listenquest stories list`) or from a YAML file path.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := resolveStory(args[0])
		if err != nil {
			return err
		}
		return runApp(cmd, st)
	},
}

// resolveStory looks ref up among the built-in stories, then as a file.
func resolveStory(ref string) (*script.Story, error) {
	registry, err := script.Builtin()
	if err != nil {
		return nil, fmt.Errorf("load stories: %w", err)
	}
	if st, ok := registry.Get(ref); ok {
		return st, nil
	}
	if _, err := os.Stat(ref); err == nil {
		return script.LoadFile(ref)
	}
	return nil, fmt.Errorf("unknown story %q", ref)
}
