package ledgerprobe

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerprobe/ledgerprobe/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of analysis reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(report.Schema())
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <report.json>...",
		Short: "Validate JSON reports against the schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				b, err := os.ReadFile(p)
				if err != nil {
					return err
				}
				if err := report.ValidateJSON(b); err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), p+": ok")
			}
			return nil
		},
	})
	rootCmd.AddCommand(cmd)
}
