package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/output"
)

var explainCmd = &cobra.Command{
	Use:   "explain <item-id>",
	Short: "Show how an item was scored",
	Long: `Explain how the declutter engine treats a single item: the rule that
excludes it, or every factor of its score and the resulting tier. Items
scoring below the review threshold are explained too.`,
	Example: `  closetprune explain 12`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("missing item id\nUsage: closetprune explain <item-id>")
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runExplain,
}

func init() {
	RootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	itemID, err := parseItemID(args[0])
	if err != nil {
		return err
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

	exp, err := newAnalyzer(st).Explain(cmd.Context(), cfg.CLI.UserID, itemID, t)
	if err != nil {
		return describeError(itemID, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderExplanation(exp, t))
	return nil
}
