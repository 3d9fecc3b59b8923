package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridiron-analytics/trackprep/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trackprep",
	Short: "Batch preparation of player-tracking exports",
	Long:  "Filters and joins raw per-week player-tracking exports into a pass-play tracking table with spatial distance summaries, plus a per-player route table.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
