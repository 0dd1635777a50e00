package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var useDate string

var useCmd = &cobra.Command{
	Use:   "use <item-id>",
	Short: "Record that an item was worn or used",
	Long: `Record a usage of an item, today by default. Usage resets the recency
factor of the score, and an item that was pending or marked for discard
returns to active.`,
	Example: `  # Wore it today
  closetprune use 12

  # Wore it last weekend
  closetprune use 12 --date 2024-03-09`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

func init() {
	useCmd.Flags().StringVar(&useDate, "date", "", "date of use, YYYY-MM-DD (default: today)")
	RootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	itemID, err := parseItemID(args[0])
	if err != nil {
		return err
	}

	t, err := now()
	if err != nil {
		return err
	}
	usedAt, err := parseDate(useDate, t.Location(), t)
	if err != nil {
		return err
	}

	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ev, err := newRecorder(st).Record(cmd.Context(), cfg.CLI.UserID, itemID, usedAt, t)
	if err != nil {
		return describeError(itemID, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recorded use of item %d on %s.\n", itemID, ev.UsedAt.Format("2006-01-02"))
	if ev.Reactivated {
		fmt.Fprintf(out, "Item %d is active again.\n", itemID)
	}
	return nil
}
