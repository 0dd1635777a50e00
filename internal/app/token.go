package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/auth"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token",
	Long: `Issue a signed bearer token for the HTTP API. The token is for the user
given by --user (default: cli.user_id) and is signed with auth.jwt_secret.`,
	Example: `  closetprune token --user alice --ttl 720h
  curl -H "Authorization: Bearer $(closetprune token)" localhost:8080/api/items/declutter_candidates/`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default: auth.token_ttl)")
	RootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	ttl := cfg.Auth.TokenTTL
	if tokenTTL > 0 {
		ttl = tokenTTL
	}

	manager, err := auth.NewManager(cfg.Auth.JWTSecret, ttl)
	if err != nil {
		return fmt.Errorf("%w\nSet auth.jwt_secret in %s or CLOSETPRUNE_AUTH__JWT_SECRET", err, cfgPath)
	}

	token, err := manager.Issue(cfg.CLI.UserID)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
