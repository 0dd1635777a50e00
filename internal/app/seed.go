package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/output"
	"github.com/blackwell-systems/closetprune/internal/seed"
)

var (
	seedItems int
	seedSeed  int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with a demo wardrobe",
	Long: `Generate a demo wardrobe with realistic usage histories for the current
user. Useful for trying out the candidates ranking and the API.`,
	Example: `  closetprune seed
  closetprune seed --items 200 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedItems, "items", 50, "number of items to generate")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed for reproducible output (0: random)")
	RootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedItems <= 0 {
		return fmt.Errorf("invalid --items: %d (must be > 0)", seedItems)
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

	progress := output.NewProgress(seedItems, "items")
	progress.SetWriter(cmd.ErrOrStderr())

	report, err := seed.Generate(cmd.Context(), st, seed.Options{
		UserID: cfg.CLI.UserID,
		Items:  seedItems,
		Seed:   seedSeed,
		Now:    t,
	}, func() { progress.Add(1) })
	progress.Finish()
	if err != nil {
		return fmt.Errorf("seeding failed after %d items: %w", report.Items, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d items (%d favorites, %d pending) with %d usage records for %q.\n",
		report.Items, report.Favorites, report.Pending, report.UsageEvents, cfg.CLI.UserID)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'closetprune candidates' to see what to declutter.")
	return nil
}
