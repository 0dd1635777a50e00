package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetprune/internal/api"
	"github.com/blackwell-systems/closetprune/internal/auth"
	"github.com/blackwell-systems/closetprune/internal/config"
	"github.com/blackwell-systems/closetprune/internal/daemon"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
	"github.com/blackwell-systems/closetprune/internal/logging"
	"github.com/blackwell-systems/closetprune/internal/metrics"
	"github.com/blackwell-systems/closetprune/internal/watcher"
)

var (
	serveAddr        string
	serveDaemon      bool
	serveDaemonChild bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the declutter API over HTTP",
	Long: `Start the HTTP API used by the web frontend.

Endpoints (all under /api require a bearer token unless auth.disabled is set):
  GET  /api/items/declutter_candidates/       ranked candidates
  POST /api/items/declutter_action/           pending, discard or favorite
  GET  /api/items/{id}/declutter_explain/     score breakdown of one item
  POST /api/usage_history/                    record a usage
  GET  /healthz                               database health
  GET  /metrics                               Prometheus metrics

The declutter section of the config file is reloaded when the file changes.
Use 'closetprune token' to issue a token for a user.`,
	Example: `  # Serve in the foreground
  closetprune serve

  # Serve in the background
  closetprune serve --daemon

  # Stop the background server
  closetprune stop`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&serveDaemon, "daemon", false, "run in the background")
	serveCmd.Flags().BoolVar(&serveDaemonChild, strings.TrimPrefix(daemon.ChildFlag, "--"), false, "")
	serveCmd.Flags().MarkHidden(strings.TrimPrefix(daemon.ChildFlag, "--"))

	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	if serveDaemon {
		return startDaemon(cmd)
	}
	if serveDaemonChild {
		defer daemon.RemovePID(cfg.Server.PIDFile)
	}

	logger := logging.Logger()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	authenticator, err := newAuthenticator()
	if err != nil {
		return err
	}

	st, err := getStore()
	if err != nil {
		return err
	}
	defer st.Close()

	a := newAnalyzer(st)
	a.SetObserver(metrics.Observer{})
	machine := lifecycle.NewMachine(st)

	srv := api.New(api.Deps{
		Analyzer: a,
		Machine:  machine,
		Recorder: newRecorder(st),
		Health:   st,
		Auth:     authenticator,
	}, api.Options{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
		Location:          loc,
		Now:               nowFunc,
	})

	w, err := watcher.New(cfgPath, func() error {
		next, err := config.Load(cfgPath)
		metrics.RecordConfigReload(err)
		if err != nil {
			return err
		}
		a.SetConfig(next.Declutter)
		logger.Info().Msg("declutter rules reloaded")
		return nil
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		logger.Warn().Err(err).Msg("config hot reload disabled")
	} else {
		defer w.Stop()
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("db", cfg.Database.Path).
			Bool("auth", !authenticator.Disabled()).
			Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newAuthenticator() (*auth.Authenticator, error) {
	if cfg.Auth.Disabled {
		logger := logging.Logger()
		logger.Warn().Str("dev_user", cfg.Auth.DevUser).Msg("authentication disabled")
		return auth.NewDevAuthenticator(cfg.Auth.DevUser), nil
	}
	manager, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w\nSet auth.jwt_secret (or CLOSETPRUNE_AUTH__JWT_SECRET), or auth.disabled for local use", err)
	}
	return auth.NewAuthenticator(manager), nil
}

// startDaemon re-executes serve in the background.
func startDaemon(cmd *cobra.Command) error {
	for _, p := range []string{cfg.Server.PIDFile, cfg.Server.LogFile} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
	}

	var childArgs []string
	for _, arg := range os.Args[1:] {
		if arg == "--daemon" || strings.HasPrefix(arg, "--daemon=") {
			continue
		}
		childArgs = append(childArgs, arg)
	}

	pid, err := daemon.Start(childArgs, cfg.Server.PIDFile, cfg.Server.LogFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server started in background (PID %d) on %s\n", pid, cfg.Server.Addr)
	fmt.Fprintf(out, "Logs: %s\n", cfg.Server.LogFile)
	fmt.Fprintln(out, "Run 'closetprune stop' to stop it.")
	return nil
}
