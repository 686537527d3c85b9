package ledgerprobe

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerprobe/ledgerprobe/internal/engine"
	"github.com/ledgerprobe/ledgerprobe/internal/report"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "signatures",
		Short: "List the magic markers searched for, config extras included",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildEngineConfig(".", engineOverrides{})
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if flagJSON {
				rows := make([]map[string]string, 0, len(cfg.Signatures))
				for _, s := range cfg.Signatures {
					rows = append(rows, map[string]string{"label": s.Label, "marker": fmt.Sprintf("%x", s.Marker)})
				}
				return report.WriteJSON(cmd.OutOrStdout(), rows)
			}
			report.PrintSignatures(cmd.OutOrStdout(), cfg.Signatures)
			return nil
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "patterns",
		Short: "List the active pattern categories, config extras included",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildEngineConfig(".", engineOverrides{})
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			eng, err := engine.New(cfg)
			if err != nil {
				return err
			}
			if flagJSON {
				return report.WriteJSON(cmd.OutOrStdout(), eng.Patterns().Categories())
			}
			report.PrintPatterns(cmd.OutOrStdout(), eng.Patterns().Catalogue())
			return nil
		},
	})
}
