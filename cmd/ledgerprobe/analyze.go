package ledgerprobe

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerprobe/ledgerprobe/internal/audit"
	"github.com/ledgerprobe/ledgerprobe/internal/engine"
	"github.com/ledgerprobe/ledgerprobe/internal/ingest"
	"github.com/ledgerprobe/ledgerprobe/internal/report"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

var (
	flagFieldCount    int
	flagFieldStart    int
	flagContextRadius int
	flagMaxFields     int
	flagInclude       string
	flagExclude       string
	flagMaxBytes      int64
	flagFailUnder     float64
	flagAuditLog      string
	flagDryRun        bool
	flagSamples       int
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <path>... (use - for stdin)",
		Short: "Analyze files or directory trees",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().IntVar(&flagFieldCount, "field-count", 0, "offsets scanned for numeric fields (default 500)")
	cmd.Flags().IntVar(&flagFieldStart, "field-start", 0, "first offset scanned for numeric fields")
	cmd.Flags().IntVar(&flagContextRadius, "context-radius", 0, "bytes of context kept around each pattern match (default 50)")
	cmd.Flags().IntVar(&flagMaxFields, "max-fields", 0, "field candidates listed per report (-1 = all, default 100)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs (directories only)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs (directories only)")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	cmd.Flags().Float64Var(&flagFailUnder, "fail-under", 0, "exit 1 when any report's confidence is below this value")
	cmd.Flags().StringVar(&flagAuditLog, "audit-log", "", "append one JSON line per analyzed file to this file")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the files that would be analyzed without reading them")
	cmd.Flags().IntVar(&flagSamples, "samples", report.DefaultSamples, "matches shown per pattern category in text output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := buildEngineConfig(configRoot(args), engineOverrides{
		fieldCount:      flagFieldCount,
		fieldStart:      flagFieldStart,
		contextRadius:   flagContextRadius,
		maxFields:       flagMaxFields,
		include:         flagInclude,
		exclude:         flagExclude,
		maxBytes:        flagMaxBytes,
		defaultExcludes: changedBool(cmd, "default-excludes", flagDefaultExcludes),
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	out := cmd.OutOrStdout()

	if flagDryRun {
		targets, skipped, err := eng.Targets(ctx, args)
		if err != nil {
			return err
		}
		for _, t := range targets {
			fmt.Fprintln(out, t.Path)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d files, %d skipped by size\n", len(targets), skipped)
		return nil
	}

	res, err := collect(ctx, eng, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	// a lone unreadable input is a hard error; machine formats still get the error report
	if len(args) == 1 && len(res.Reports) == 1 && res.Reports[0].Error != "" {
		if flagJSON || flagSARIF {
			if err := emit(out, res); err != nil {
				return err
			}
		}
		return fmt.Errorf("analyze %s: %s", res.Reports[0].FileInfo.Path, res.Reports[0].Error)
	}

	if flagAuditLog != "" {
		runID := "run_" + strconv.FormatInt(time.Now().Unix(), 10)
		recs := make([]audit.Record, 0, len(res.Reports))
		for _, r := range res.Reports {
			recs = append(recs, audit.NewRecord(runID, r))
		}
		if err := audit.New(flagAuditLog).Append(recs...); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "audit warning:", err)
		}
	}

	if err := emit(out, res); err != nil {
		return err
	}
	if belowThreshold(res.Reports, flagFailUnder) {
		os.Exit(1)
	}
	return nil
}

// collect analyzes stdin when the only argument is "-", else the paths.
func collect(ctx context.Context, eng *engine.Engine, args []string, stdin io.Reader) (engine.BatchResult, error) {
	if len(args) == 1 && args[0] == "-" {
		start := time.Now()
		rep, err := eng.AnalyzeSource(ctx, ingest.Reader("stdin", stdin))
		if err != nil {
			return engine.BatchResult{}, err
		}
		return engine.BatchResult{Reports: []types.AnalysisReport{rep}, Analyzed: 1, Duration: time.Since(start)}, nil
	}
	return eng.AnalyzePaths(ctx, args)
}

func emit(w io.Writer, res engine.BatchResult) error {
	switch {
	case flagSARIF:
		if err := report.WriteSARIF(w, res.Reports, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if len(res.Reports) == 1 {
			return report.WriteJSON(w, res.Reports[0])
		}
		reports := res.Reports
		if reports == nil {
			reports = []types.AnalysisReport{} // no `null` in JSON
		}
		return report.WriteJSON(w, reports)
	default:
		for _, r := range res.Reports {
			report.PrintText(w, r, report.PrintOptions{Samples: flagSamples})
		}
		if len(res.Reports) != 1 {
			report.PrintBatchFooter(w, report.BatchStats{
				Analyzed:  res.Analyzed,
				Failed:    res.Failed,
				Skipped:   res.Skipped,
				Unchanged: res.Unchanged,
				Duration:  res.Duration,
			})
		}
	}
	return nil
}

func belowThreshold(reports []types.AnalysisReport, threshold float64) bool {
	if threshold <= 0 {
		return false
	}
	for _, r := range reports {
		if r.Error == "" && r.Summary.Confidence < threshold {
			return true
		}
	}
	return false
}
