package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/listenquest/internal/scoring"
	"github.com/abhisek/listenquest/internal/script"
	"github.com/spf13/cobra"
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "List and validate stories",
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := script.Builtin()
		if err != nil {
			return fmt.Errorf("load stories: %w", err)
		}
		stories := registry.List()

		fmt.Printf("%-18s  %-32s  %-12s  %-16s  %5s  %9s  %s\n",
			"ID", "Title", "Theme", "Voice", "Steps", "Questions", "Stars")
		fmt.Println(strings.Repeat("─", 108))

		for _, st := range stories {
			title := st.Title
			if len(title) > 32 {
				title = title[:29] + "..."
			}
			fmt.Printf("%-18s  %-32s  %-12s  %-16s  %5d  %9d  %d\n",
				st.ID, title, st.Theme, st.Voice, len(st.Steps), st.InteractiveCount(),
				scoring.AwardTableFor(st).Attainable())
		}

		fmt.Printf("\n%d stories\n", len(stories))
		return nil
	},
}

var storiesValidateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check story files against the story schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			st, err := script.LoadFile(path)
			if err != nil {
				failed++
				fmt.Printf("✗ %v\n", err)
				continue
			}
			fmt.Printf("✓ %s (%s, %d steps)\n", path, st.ID, len(st.Steps))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d stories failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	storiesCmd.AddCommand(storiesListCmd)
	storiesCmd.AddCommand(storiesValidateCmd)
}
