package ledgerprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerprobe/ledgerprobe/internal/config"
	"github.com/ledgerprobe/ledgerprobe/internal/engine"
	"github.com/ledgerprobe/ledgerprobe/internal/files"
)

var (
	cfgOutput          string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgFieldCount      int
	cfgContextRadius   int
	cfgDefaultExcludes bool
	cfgGitignore       bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .ledgerprobe.yml (or .toml) with the stock thresholds",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".ledgerprobe.yml", "output file path; a .toml extension writes TOML")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	initCmd.Flags().IntVar(&cfgFieldCount, "field-count", 0, "offsets scanned for numeric fields (0 = default)")
	initCmd.Flags().IntVar(&cfgContextRadius, "context-radius", 0, "pattern context radius (0 = default)")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", false, "add the cache and audit log files to .gitignore next to the config")

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the local and global config files that apply here",
		RunE:  runConfigShow,
	})
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	def := engine.DefaultConfig()
	fc := config.FileConfig{
		Threads:          intPtr(cfgThreads),
		FieldScanCount:   intPtr(cfgFieldCount),
		ContextRadius:    intPtr(cfgContextRadius),
		MaxFields:        intPtr(def.MaxFields),
		HighEntropy:      floatPtr(def.Entropy.HighThreshold),
		NullRatio:        floatPtr(def.Confidence.NullRatio),
		BlockSizes:       def.Structure.BlockSizes,
		Strides:          def.Structure.Strides,
		StrideMatchRatio: floatPtr(def.Structure.StrideMatchRatio),
		MaxBytes:         int64Ptr(cfgMaxBytes),
		DefaultExcludes:  boolPtr(cfgDefaultExcludes),
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(cfgOutput), ".toml") {
		format = "toml"
	}
	b, err := config.Marshal(fc, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	if cfgGitignore {
		dir := filepath.Dir(cfgOutput)
		for _, name := range files.GeneratedFiles() {
			if err := files.AppendIgnore(dir, name); err != nil {
				return fmt.Errorf("update .gitignore: %w", err)
			}
		}
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	local, global, err := loadConfigs(".")
	if err != nil {
		return err
	}
	for _, c := range []struct {
		name string
		fc   config.FileConfig
	}{{"global", global}, {"local", local}} {
		b, err := config.Marshal(c.fc, "yaml")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s\n%s\n", c.name, b)
	}
	return nil
}

func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
