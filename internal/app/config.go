package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration: defaults, overridden by the config
file, overridden by CLOSETPRUNE_ environment variables and global flags.
The JWT secret is redacted.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.Auth.JWTSecret != "" {
		shown.Auth.JWTSecret = "[redacted]"
	}

	data, err := config.Marshal(&shown)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", cfgPath)
	out.Write(data)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(cfgPath, configInitForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgPath)
	return nil
}
