package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/listenquest/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's best results and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

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

		ctx := context.Background()
		repo := s.EventRepo()

		bests, err := repo.StoryBests(ctx, cfg.User)
		if err != nil {
			return fmt.Errorf("query best results: %w", err)
		}
		sessions, err := repo.RecentSessions(ctx, store.QueryOpts{Limit: limit, UserID: cfg.User})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		fmt.Printf("Learner: %s\n\n", cfg.User)

		if len(bests) == 0 {
			fmt.Println("No finished stories yet.")
		} else {
			fmt.Printf("%-32s  %5s  %5s  %s\n", "Story", "Plays", "Best", "Stars")
			fmt.Println(strings.Repeat("─", 56))
			for _, b := range bests {
				fmt.Printf("%-32s  %5d  %5d  %s\n", b.StoryTitle, b.Plays, b.BestScore, starString(b.BestStars))
			}
		}

		if len(sessions) == 0 {
			return nil
		}
		fmt.Printf("\n%-19s  %-28s  %-8s  %7s  %5s  %s\n",
			"Timestamp", "Story", "Result", "Correct", "Score", "Time")
		fmt.Println(strings.Repeat("─", 86))
		for _, r := range sessions {
			title := r.StoryTitle
			if len(title) > 28 {
				title = title[:25] + "..."
			}
			fmt.Printf("%-19s  %-28s  %-8s  %7d  %5d  %s\n",
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				title,
				r.Action,
				r.CorrectAnswers,
				r.Score,
				(time.Duration(r.ElapsedSecs) * time.Second).String(),
			)
		}
		return nil
	},
}

func starString(n int) string {
	const maxStars = 3
	n = max(0, min(n, maxStars))
	return strings.Repeat("★", n) + strings.Repeat("☆", maxStars-n)
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent sessions to show")
}
