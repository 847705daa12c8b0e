// Command elegante runs the storefront API and its maintenance tasks.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/elegante/internal/app"
	"github.com/phenrril/elegante/internal/config"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "elegante",
	Short: "Elegante storefront API",
	Long: `elegante serves the storefront REST API over an in-memory catalog.

Running it without a subcommand is the same as "elegante serve".`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.IsProduction() {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
}

// bootstrap loads configuration, configures logging and seeds the catalog.
func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)
	if cfg.UsingDevSessionKey() {
		zlog.Warn().Msg("SESSION_KEY not set, using development key")
	}
	application := app.NewApp(cfg)
	if err := application.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return application, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	ln, port, err := listen(application.Config.Port)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("port", port).Msg("listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	zlog.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// listen binds port, falling back to the first free port in 8081-8090.
func listen(port string) (net.Listener, string, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err == nil {
		return ln, port, nil
	}
	zlog.Warn().Err(err).Str("port", port).Msg("port unavailable, trying fallbacks")
	for p := 8081; p <= 8090; p++ {
		alt := fmt.Sprint(p)
		if l2, err2 := net.Listen("tcp", net.JoinHostPort("", alt)); err2 == nil {
			return l2, alt, nil
		}
	}
	return nil, "", fmt.Errorf("listen on %s: %w", port, err)
}
