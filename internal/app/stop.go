package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/daemon"
	"github.com/blackwell-systems/closetprune/internal/output"
)

// stopTimeout bounds how long stop waits for the server to exit.
var stopTimeout = 10 * time.Second

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background API server",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	RootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	pidFile := cfg.Server.PIDFile
	if err := daemon.Stop(pidFile); err != nil {
		return err
	}

	spinner := output.NewSpinner("Waiting for server to exit")
	spinner.SetWriter(cmd.ErrOrStderr())
	spinner.Start()

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		running, err := daemon.IsRunning(pidFile)
		if err != nil {
			spinner.Stop("")
			return err
		}
		if !running {
			spinner.Stop("✓ Server stopped")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	spinner.Stop("")
	return fmt.Errorf("server did not exit within %s (PID file: %s)", stopTimeout, pidFile)
}
