package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show wardrobe and usage statistics",
	Long: `Display statistics about your wardrobe: item counts by status, favorites,
recorded usage and how often items are used.

Frequency classes:
  weekly   used four or more times a month
  monthly  used at least once a month
  rarely   used less than once a month
  never    no recorded usage`,
	Example: `  closetprune stats`,
	Args:    cobra.NoArgs,
	RunE:    runStats,
}

func init() {
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	t, err := now()
	if err != nil {
		return err
	}

	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.GetStats(cmd.Context(), cfg.CLI.UserID)
	if err != nil {
		return fmt.Errorf("failed to read statistics: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.RenderStats(stats, t))

	rows, err := st.ListUsageSummaries(cmd.Context(), cfg.CLI.UserID, 0, t)
	if err != nil {
		return fmt.Errorf("failed to read usage: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range rows {
		if row.Status == analyzer.StatusDeleted {
			continue
		}
		counts[analyzer.Frequency(row)]++
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage frequency:")
	for _, class := range []string{"weekly", "monthly", "rarely", "never"} {
		fmt.Fprintf(out, "  %-8s %d\n", class, counts[class])
	}
	return nil
}
