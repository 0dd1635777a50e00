package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/output"
)

var (
	candidatesTier     string
	candidatesMinScore int
	candidatesVerbose  bool
)

var candidatesCmd = &cobra.Command{
	Use:     "candidates",
	Aliases: []string{"unused"},
	Short:   "List declutter candidates with their scores",
	Long: `Rank your items as declutter candidates.

Scores are the sum of independent factors:
  - Tenure: how long ago the item was registered
  - Recency: how long since it was last used (or never used)
  - Frequency: how many times a month it is used
  - Season: a deduction for seasonal items outside their season

Items are classified into tiers:
  - strong (score >= 9 by default): strong candidate
  - review (score >= 7 by default): candidate for review

Favorites, items marked for discard or deleted, items marked pending within
the cooldown period and recently registered items are never listed.
Thresholds and points are configurable; see 'closetprune config show'.`,
	Example: `  # Show all candidates
  closetprune candidates

  # Show only strong candidates
  closetprune candidates --tier strong

  # Show the score breakdown of every candidate
  closetprune candidates -v`,
	Args: cobra.NoArgs,
	RunE: runCandidates,
}

func init() {
	candidatesCmd.Flags().StringVar(&candidatesTier, "tier", "", "Filter by tier: strong, review")
	candidatesCmd.Flags().IntVar(&candidatesMinScore, "min-score", 0, "Minimum declutter score")
	candidatesCmd.Flags().BoolVarP(&candidatesVerbose, "verbose", "v", false, "Show the score breakdown for each item")

	RootCmd.AddCommand(candidatesCmd)
}

func runCandidates(cmd *cobra.Command, args []string) error {
	tier := analyzer.Tier(candidatesTier)
	if tier != "" && tier != analyzer.TierStrong && tier != analyzer.TierReview {
		return fmt.Errorf("invalid --tier value %q: must be one of: strong, review", candidatesTier)
	}
	if candidatesMinScore < 0 {
		return fmt.Errorf("invalid --min-score: %d (must be >= 0)", candidatesMinScore)
	}

	t, err := now()
	if err != nil {
		return err
	}

	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := newAnalyzer(st).Candidates(cmd.Context(), cfg.CLI.UserID, t)
	if err != nil {
		return fmt.Errorf("failed to compute candidates: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.RenderTierSummary(analyzer.Summarize(results)))
	fmt.Fprintln(out)

	filtered := analyzer.FilterByTier(results, tier)
	if candidatesMinScore > 0 {
		kept := filtered[:0:0]
		for _, r := range filtered {
			if r.Score >= candidatesMinScore {
				kept = append(kept, r)
			}
		}
		filtered = kept
	}

	if candidatesVerbose {
		fmt.Fprint(out, output.RenderCandidateDetails(filtered, t))
	} else {
		fmt.Fprint(out, output.RenderCandidateTable(filtered, t))
	}

	if len(filtered) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'closetprune explain <item-id>' for details, or")
		fmt.Fprintln(out, "'closetprune action <item-id> pending|discard|favorite' to decide.")
	}
	return nil
}
