package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/config"
	"github.com/blackwell-systems/closetprune/internal/logging"
)

var (
	dbPath     string
	configFlag string
	userFlag   string
	logLevel   string

	// cfg is the effective configuration, loaded before every command.
	cfg *config.Config
	// cfgPath is the config file cfg was loaded from. It may not exist.
	cfgPath string

	// nowFunc is the clock used by every command.
	nowFunc = time.Now

	// RootCmd is the root command for closetprune
	RootCmd = &cobra.Command{
		Use:   "closetprune",
		Short: "Find the clothes you no longer wear",
		Long: `closetprune ranks wardrobe items as declutter candidates from their
usage history, and tracks what you decide to do with them.

Every item earns points for how long it has been registered, how long ago
it was last used and how rarely it is used. Items out of season get a
deduction so seasonal clothes are not judged too early. High scorers are
listed as strong candidates or candidates for review; favorites, items
already marked for discard and recently reviewed items are never listed.

Quick Start:
  1. closetprune seed               # or: closetprune items add "wool coat"
  2. closetprune candidates
  3. closetprune explain <item-id>
  4. closetprune action <item-id> pending

Examples:
  # Serve the HTTP API for the web frontend
  closetprune serve --daemon

  # Record that you wore something today
  closetprune use 12

  # Show tunable thresholds
  closetprune config show`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "closetprune: declutter candidates from your wardrobe's usage history")
			fmt.Fprintln(out)
			if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
				fmt.Fprintln(out, "Run 'closetprune seed' to try it with a demo wardrobe,")
				fmt.Fprintln(out, "or 'closetprune items add <name>' to register your own items.")
			} else {
				fmt.Fprintln(out, "Tip: Run 'closetprune candidates' to view recommendations.")
				fmt.Fprintln(out, "     Run 'closetprune status' to check the server and database.")
			}
			fmt.Fprintln(out, "Run 'closetprune --help' for all commands.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.closetprune/closetprune.db)")
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: $XDG_CONFIG_HOME/closetprune/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "user id for local commands (default: cli.user_id)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig resolves the configuration and applies global flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	path, err := config.Path(configFlag)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	if dbPath != "" {
		loaded.Database.Path = dbPath
	}
	if userFlag != "" {
		loaded.CLI.UserID = userFlag
	}

	level := loaded.Logging.Level
	switch {
	case logLevel != "":
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("invalid --log-level %q", logLevel)
		}
		level = logLevel
	case cmd.Name() != "serve":
		// Keep interactive output clean unless asked otherwise.
		level = "warn"
	}
	logging.Init(logging.Config{Level: level, Format: loaded.Logging.Format})

	cfg = loaded
	cfgPath = path
	return nil
}

// now returns the current time in the configured timezone.
func now() (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	return nowFunc().In(loc), nil
}
