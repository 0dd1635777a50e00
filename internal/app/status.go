package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/daemon"
	"github.com/blackwell-systems/closetprune/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check server status and wardrobe statistics",
	Long: `Display the status of the background API server and the database.

Shows:
  • Server running status and PID
  • Database location and size
  • Number of items by status
  • Current candidate counts
  • Config file in use`,
	Example: `  # Check status
  closetprune status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	const label = "%-14s"

	running, err := daemon.IsRunning(cfg.Server.PIDFile)
	if err != nil {
		return fmt.Errorf("failed to check server status: %w", err)
	}

	fmt.Fprintln(out)
	if running {
		fmt.Fprintf(out, label+"running (PID %d, %s)\n", "Server:", readPIDFile(cfg.Server.PIDFile), cfg.Server.Addr)
	} else {
		fmt.Fprintf(out, label+"stopped  (run 'closetprune serve --daemon')\n", "Server:")
	}

	configState := cfgPath
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		configState += " (not found, using defaults)"
	}
	fmt.Fprintf(out, label+"%s\n", "Config:", configState)

	fi, err := os.Stat(cfg.Database.Path)
	if os.IsNotExist(err) {
		fmt.Fprintf(out, label+"%s (not created yet)\n", "Database:", cfg.Database.Path)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "closetprune is not set up: run 'closetprune seed' or 'closetprune items add <name>'.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat database: %w", err)
	}
	fmt.Fprintf(out, label+"%s · %s\n", "Database:", cfg.Database.Path, humanize.Bytes(uint64(fi.Size())))

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
	fmt.Fprintf(out, label+"%s · %d active · %d pending · %d discard\n", "Items:",
		humanize.Comma(int64(stats.Items)), stats.Active, stats.Pending, stats.Discard)

	results, err := newAnalyzer(st).Candidates(cmd.Context(), cfg.CLI.UserID, t)
	if err != nil {
		return fmt.Errorf("failed to compute candidates: %w", err)
	}
	fmt.Fprintf(out, label+"%s\n", "Candidates:", output.RenderTierSummary(analyzer.Summarize(results)))
	fmt.Fprintln(out)
	return nil
}

// readPIDFile returns the PID recorded in pidFile, or 0.
func readPIDFile(pidFile string) int {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0
	}
	pid, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	return pid
}
