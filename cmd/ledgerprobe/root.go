package ledgerprobe

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON            bool
	flagSARIF           bool
	flagThreads         int
	flagConfig          string
	flagLogLevel        string
	flagLogFormat       string
	flagDefaultExcludes bool
	flagIncremental     bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the ledgerprobe CLI.
var rootCmd = &cobra.Command{
	Use:           "ledgerprobe",
	Short:         "Reverse-engineer opaque financial binaries",
	Long:          "ledgerprobe inspects binary files of unknown format and reports entropy, magic markers, numeric fields, record structure and banking patterns with a confidence score.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the ledgerprobe CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (YAML or TOML); replaces the local config lookup")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "skip VCS, dependency and ledgerprobe's own files when walking directories")
	rootCmd.PersistentFlags().BoolVar(&flagIncremental, "incremental", false, "skip files unchanged since the last run (cache in each walked directory)")
}
