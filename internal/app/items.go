package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/output"
	"github.com/blackwell-systems/closetprune/internal/store"
)

var (
	itemsListAll          bool
	itemsRemoveNoSnapshot bool

	itemsAddSeasons  []string
	itemsAddFavorite bool
	itemsAddCreated  string
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage wardrobe items",
	Long:  `Register, list and remove wardrobe items, and inspect their usage history.`,
}

var itemsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List items",
	Args:    cobra.NoArgs,
	RunE:    runItemsList,
}

var itemsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new item",
	Long: `Register a new item. Season tags mark the seasons the item is worn in;
outside those seasons its declutter score gets a deduction. Items without
tags are treated as all-season.`,
	Example: `  closetprune items add "linen shirt" --season summer --season spring
  closetprune items add "wool coat" --season 冬 --created 2022-11-03`,
	Args: cobra.ExactArgs(1),
	RunE: runItemsAdd,
}

var itemsRemoveCmd = &cobra.Command{
	Use:     "rm <item-id>",
	Aliases: []string{"remove"},
	Short:   "Delete an item",
	Long: `Delete an item. The item and its usage history are kept with status
deleted, so it never appears as a candidate again. A snapshot of the
wardrobe is taken first unless --no-snapshot is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runItemsRemove,
}

var itemsHistoryCmd = &cobra.Command{
	Use:   "history <item-id>",
	Short: "Show the usage history of an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsHistory,
}

func init() {
	itemsListCmd.Flags().BoolVar(&itemsListAll, "all", false, "include deleted items")
	itemsRemoveCmd.Flags().BoolVar(&itemsRemoveNoSnapshot, "no-snapshot", false, "skip the automatic snapshot")

	itemsAddCmd.Flags().StringSliceVar(&itemsAddSeasons, "season", nil, "season tag (repeatable): spring, summer, autumn, winter")
	itemsAddCmd.Flags().BoolVar(&itemsAddFavorite, "favorite", false, "mark the item as a favorite")
	itemsAddCmd.Flags().StringVar(&itemsAddCreated, "created", "", "registration date, YYYY-MM-DD (default: today)")

	itemsCmd.AddCommand(itemsListCmd, itemsAddCmd, itemsRemoveCmd, itemsHistoryCmd)
	RootCmd.AddCommand(itemsCmd)
}

func runItemsList(cmd *cobra.Command, args []string) error {
	t, err := now()
	if err != nil {
		return err
	}

	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.ListItems(cmd.Context(), cfg.CLI.UserID, itemsListAll)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items yet. Run 'closetprune items add <name>' or 'closetprune seed'.")
		return nil
	}
	fmt.Fprint(out, output.RenderItemTable(items, t))
	return nil
}

func runItemsAdd(cmd *cobra.Command, args []string) error {
	seasons, err := parseSeasons(itemsAddSeasons)
	if err != nil {
		return err
	}

	t, err := now()
	if err != nil {
		return err
	}
	created, err := parseDate(itemsAddCreated, t.Location(), t)
	if err != nil {
		return err
	}
	if created.After(t) {
		return fmt.Errorf("--created %s is in the future", itemsAddCreated)
	}

	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	item := &store.Item{
		UserID:     cfg.CLI.UserID,
		Name:       args[0],
		IsFavorite: itemsAddFavorite,
		SeasonTags: seasons,
		CreatedAt:  created,
	}
	if err := st.InsertItem(cmd.Context(), item); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added item %d: %s\n", item.ID, item.Name)
	return nil
}

func runItemsRemove(cmd *cobra.Command, args []string) error {
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

	if _, err := st.GetItem(cmd.Context(), cfg.CLI.UserID, itemID); err != nil {
		return describeError(itemID, err)
	}

	out := cmd.OutOrStdout()
	if !itemsRemoveNoSnapshot {
		info, err := newSnapshots(st).Create(cmd.Context(), cfg.CLI.UserID, fmt.Sprintf("before deleting item %d", itemID))
		if err != nil {
			return fmt.Errorf("failed to create snapshot: %w", err)
		}
		fmt.Fprintf(out, "Snapshot written to %s\n", info.Path)
	}

	if err := st.DeleteItem(cmd.Context(), cfg.CLI.UserID, itemID, t); err != nil {
		return describeError(itemID, err)
	}

	fmt.Fprintf(out, "Deleted item %d.\n", itemID)
	return nil
}

func runItemsHistory(cmd *cobra.Command, args []string) error {
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

	item, err := st.GetItem(cmd.Context(), cfg.CLI.UserID, itemID)
	if err != nil {
		return describeError(itemID, err)
	}
	events, err := st.ListUsageEvents(cmd.Context(), cfg.CLI.UserID, itemID)
	if err != nil {
		return fmt.Errorf("failed to read usage history: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage history of item %d: %s\n\n", item.ID, item.Name)
	fmt.Fprint(out, output.RenderUsageHistory(events, t))
	return nil
}
