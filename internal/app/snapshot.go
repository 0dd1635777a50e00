package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/snapshots"
	"github.com/blackwell-systems/closetprune/internal/store"
)

var (
	snapshotReason    string
	snapshotOlderThan time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Back up and restore your wardrobe",
	Long: `Snapshots are JSON files holding every item you own, deleted ones included,
with their status, favorite flag, season tags and usage history. One is
taken automatically before 'closetprune items rm'.`,
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a snapshot of your wardrobe",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotCreate,
}

var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List snapshots",
	Args:    cobra.NoArgs,
	RunE:    runSnapshotList,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Recreate the items of a snapshot",
	Long: `Recreate every item of a snapshot for the current user. Restored items get
new ids, so restoring into a wardrobe that still has the items duplicates
them; restore into a fresh database with --db, or for another --user.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotRestore,
}

var snapshotCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotClean,
}

func init() {
	snapshotCreateCmd.Flags().StringVar(&snapshotReason, "reason", "manual", "reason recorded in the snapshot")
	snapshotCleanCmd.Flags().DurationVar(&snapshotOlderThan, "older-than", 90*24*time.Hour, "remove snapshots older than this")

	snapshotCmd.AddCommand(snapshotCreateCmd, snapshotListCmd, snapshotRestoreCmd, snapshotCleanCmd)
	RootCmd.AddCommand(snapshotCmd)
}

// snapshotDir keeps snapshots next to the database.
func snapshotDir() string {
	return filepath.Join(filepath.Dir(cfg.Database.Path), "snapshots")
}

func newSnapshots(st *store.Store) *snapshots.Manager {
	return snapshots.New(st, snapshotDir())
}

func runSnapshotCreate(cmd *cobra.Command, args []string) error {
	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	info, err := newSnapshots(st).Create(cmd.Context(), cfg.CLI.UserID, snapshotReason)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot of %d items written to %s\n", info.Items, info.Path)
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	infos, err := snapshots.New(nil, snapshotDir()).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No snapshots yet. Run 'closetprune snapshot create'.")
		return nil
	}

	fmt.Fprintf(out, "%-16s %-10s %-6s %-14s %s\n", "Created", "User", "Items", "Reason", "File")
	for _, info := range infos {
		fmt.Fprintf(out, "%-16s %-10s %-6d %-14s %s\n",
			humanize.Time(info.CreatedAt), info.UserID, info.Items, info.Reason, info.Path)
	}
	return nil
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := newSnapshots(st).Restore(cmd.Context(), args[0], cfg.CLI.UserID)
	if err != nil {
		return fmt.Errorf("restore stopped after %d items: %w", report.Items, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d items with %d usage records for %q.\n",
		report.Items, report.UsageEvents, cfg.CLI.UserID)
	return nil
}

func runSnapshotClean(cmd *cobra.Command, args []string) error {
	removed, err := snapshots.New(nil, snapshotDir()).Cleanup(snapshotOlderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d old snapshots.\n", removed)
	return nil
}
