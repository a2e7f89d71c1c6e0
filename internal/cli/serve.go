package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgpai22/subtrack/internal/api"
	"github.com/mgpai22/subtrack/internal/host"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve subtitle sessions over HTTP",
	Long: `Serve subtitle sessions over HTTP for overlay clients.

A client creates a session, loads subtitles and display settings through
messages, then reports its media element's time; each report returns
what should be on screen.

Endpoints:
  GET    /api/health
  POST   /api/sessions
  DELETE /api/sessions/{id}
  POST   /api/sessions/{id}/navigate
  POST   /api/sessions/{id}/messages
  POST   /api/sessions/{id}/time
  GET    /api/sessions/{id}/display

Examples:
  subtrack serve
  subtrack serve --addr 127.0.0.1:9090
  SUBTRACK_CORS_ORIGINS=https://example.com subtrack serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		String("addr", "", "Listen address (overrides config and SUBTRACK_ADDR)")
	serveCmd.Flags().
		Duration("shutdown-timeout", 5*time.Second, "Grace period for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

	registry := host.NewRegistry(host.SessionOptions{
		Policy:       cfg.Policy(),
		Store:        seededStore(),
		Logger:       logger,
		PollInterval: cfg.Playback.PollInterval,
	})
	defer registry.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(registry, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Listening",
			"addr", cfg.Server.Addr,
			"cors_origins", cfg.Server.CORSOrigins,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Infow("Shutting down", "sessions", registry.Len())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
