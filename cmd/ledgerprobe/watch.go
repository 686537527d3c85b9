package ledgerprobe

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerprobe/ledgerprobe/internal/engine"
	"github.com/ledgerprobe/ledgerprobe/internal/report"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
	"github.com/ledgerprobe/ledgerprobe/internal/watch"
)

var flagDebounce time.Duration

func init() {
	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Re-analyze files whenever they are written",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatch,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().DurationVar(&flagDebounce, "debounce", watch.DefaultDebounce, "quiet period before a changed file is analyzed")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildEngineConfig(configRoot(args), engineOverrides{
		include:         flagInclude,
		exclude:         flagExclude,
		defaultExcludes: changedBool(cmd, "default-excludes", flagDefaultExcludes),
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	w, err := watch.New(eng, watch.Options{Debounce: flagDebounce, Filter: eng.Selected, Logger: cfg.Logger})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(args...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d path(s); press Ctrl-C to stop\n", len(args))
	err = w.Run(ctx, func(r types.AnalysisReport) {
		if flagJSON {
			_ = report.WriteJSON(out, r)
			return
		}
		report.PrintText(out, r, report.PrintOptions{})
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
