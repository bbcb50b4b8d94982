package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/listenquest/internal/store"
	"github.com/spf13/cobra"
)

var speechLogCmd = &cobra.Command{
	Use:   "speech-log",
	Short: "List recent speech engine requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EventRepo().RecentSpeechEvents(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No speech events found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-8s  %-16s  %6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Provider", "Voice", "Chars", "Cached", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 90))

		for _, e := range events {
			if failedOnly && e.Success {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			cached := ""
			if e.Cached {
				cached = "yes"
			}
			fmt.Printf("%-6d  %-19s  %-8s  %-16s  %6d  %-6s  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Provider,
				e.Voice,
				e.Chars,
				cached,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func init() {
	speechLogCmd.Flags().Int("limit", 20, "Number of events to show")
	speechLogCmd.Flags().Bool("failed", false, "Only show failed requests")
}
