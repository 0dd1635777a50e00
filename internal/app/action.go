package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/lifecycle"
)

var actionCmd = &cobra.Command{
	Use:   "action <item-id> <pending|discard|favorite>",
	Short: "Record a decision about an item",
	Long: `Apply a declutter decision to an item:

  pending   keep it for now; it is hidden from candidates during the cooldown
  discard   mark it for discard; it is never listed again
  favorite  keep it for good; favorites are never listed

An item marked for discard cannot go back to pending, and deleted items
accept no action. Recording a new use of an item returns it to active.`,
	Example: `  closetprune action 12 pending
  closetprune action 12 favorite`,
	Args: cobra.ExactArgs(2),
	RunE: runAction,
}

func init() {
	RootCmd.AddCommand(actionCmd)
}

func runAction(cmd *cobra.Command, args []string) error {
	itemID, err := parseItemID(args[0])
	if err != nil {
		return err
	}
	action, err := lifecycle.ParseAction(args[1])
	if err != nil {
		return describeError(itemID, err)
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

	machine := lifecycle.NewMachine(st)
	outcome, err := machine.Apply(cmd.Context(), lifecycle.Request{
		UserID: cfg.CLI.UserID,
		ItemID: itemID,
		Action: action,
	}, t)
	if err != nil {
		return describeError(itemID, err)
	}

	out := cmd.OutOrStdout()
	switch {
	case !outcome.Changed:
		fmt.Fprintf(out, "Item %d unchanged: already %s.\n", itemID, describeState(action, outcome))
	case outcome.Favorited:
		fmt.Fprintf(out, "Item %d marked as a favorite. It will no longer be suggested.\n", itemID)
	default:
		fmt.Fprintf(out, "Item %d: %s → %s\n", itemID, outcome.From, outcome.To)
	}
	return nil
}

func describeState(action lifecycle.Action, outcome lifecycle.Outcome) string {
	if action == lifecycle.ActionFavorite {
		return "a favorite"
	}
	return string(outcome.To)
}
