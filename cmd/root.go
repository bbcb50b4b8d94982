package cmd

import (
	"github.com/abhisek/listenquest/internal/config"
	"github.com/abhisek/listenquest/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listenquest",
	Short: "Listening practice adventures for kids",
	Long:  "ListenQuest is a terminal app of short narrated stories. Listen to a phrase, pick what it means, and earn stars.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LISTENQUEST_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner id to record progress under (overrides LISTENQUEST_USER)")
	rootCmd.PersistentFlags().String("speed", "", "Initial narration speed: normal, slow or slower")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(speechLogCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the persistent flag
// overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User = v
	}
	if v, _ := cmd.Flags().GetString("speed"); v != "" {
		cfg.Speed = v
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag or LISTENQUEST_DB
// (highest priority), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
