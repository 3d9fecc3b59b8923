package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridiron-analytics/trackprep/internal/pipeline"
	"github.com/gridiron-analytics/trackprep/internal/store"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Run the full preparation pipeline",
	Long: `Reads the raw roster, play, player-play, and per-week tracking files
and writes the two combined output tables, fully overwriting any prior
output.

Examples:
  # Defaults: data/raw -> data/combined, weeks 1-9
  trackprep prepare

  # Single week, custom locations
  trackprep prepare --raw-dir /data/raw --output-dir /data/out --weeks 3-3

  # Skip the run manifest
  trackprep prepare --no-manifest`,
	RunE: runPrepare,
}

func init() {
	f := prepareCmd.Flags()
	f.String("raw-dir", "", "raw data directory (overrides config)")
	f.String("output-dir", "", "output directory (overrides config)")
	f.String("weeks", "", "inclusive week range, e.g. 1-9 (overrides config)")
	f.String("positions", "", "comma-separated valid position codes (overrides config)")
	f.Int("block-size", 0, "tracking ingest block size in rows (overrides config)")
	f.Int("concurrency", 0, "concurrent week files during ingest (overrides config)")
	f.Bool("no-manifest", false, "do not record a run manifest")

	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := applyPrepareFlags(cmd); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := initStore(cmd)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	result, err := pipeline.New(cfg, st).Run(ctx)
	if err != nil {
		return err
	}

	zap.L().Info("preparation run complete",
		zap.String("run_id", result.RunID),
		zap.Int64("tracking_rows", result.TrackingRows),
		zap.Int64("route_rows", result.RouteRows))

	fmt.Fprintf(os.Stdout, "Tracking table: %s (%d rows)\n", result.TrackingPath, result.TrackingRows)
	fmt.Fprintf(os.Stdout, "Route table:    %s (%d rows)\n", result.RoutePath, result.RouteRows)
	return nil
}

// applyPrepareFlags overlays set flags onto the loaded configuration.
func applyPrepareFlags(cmd *cobra.Command) error {
	f := cmd.Flags()

	if v, _ := f.GetString("raw-dir"); v != "" {
		cfg.Data.RawDir = v
	}
	if v, _ := f.GetString("output-dir"); v != "" {
		cfg.Data.OutputDir = v
	}
	if v, _ := f.GetString("weeks"); v != "" {
		start, end, err := parseWeekRange(v)
		if err != nil {
			return err
		}
		cfg.Data.Weeks.Start = start
		cfg.Data.Weeks.End = end
	}
	if v, _ := f.GetString("positions"); v != "" {
		cfg.Data.Positions = splitList(v)
	}
	if v, _ := f.GetInt("block-size"); v > 0 {
		cfg.Data.BlockSize = v
	}
	if v, _ := f.GetInt("concurrency"); v > 0 {
		cfg.Ingest.Concurrency = v
	}
	if v, _ := f.GetBool("no-manifest"); v {
		cfg.Manifest.Path = ""
	}
	return nil
}

// parseWeekRange parses "S-E" or a single week "N" into an inclusive
// range.
func parseWeekRange(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if start, err := strconv.Atoi(s); err == nil {
		return start, start, nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("invalid week range %q, want S-E", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, eris.Errorf("invalid week range start %q", parts[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, eris.Errorf("invalid week range end %q", parts[1])
	}
	if start < 1 || end < start {
		return 0, 0, eris.Errorf("invalid week range %d-%d", start, end)
	}
	return start, end, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// initStore opens the manifest store, or returns nil when manifest
// recording is disabled.
func initStore(cmd *cobra.Command) (store.Store, error) {
	if cfg.Manifest.Path == "" {
		return nil, nil
	}
	st, err := store.NewSQLite(cfg.Manifest.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
