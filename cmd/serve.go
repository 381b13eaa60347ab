package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/khanhnv2901/framecheck/internal/api"
	"github.com/khanhnv2901/framecheck/internal/checker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the clickjacking checker as a REST API service",
	Long: `Serve the web UI on / and the check endpoint on POST /check
(also /api/v1/check). Requests take {"url": "..."} and return the check result
as JSON. Private and loopback addresses are refused unless --allow-private is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config.Serve

		handler, err := newServeHandler(cfg, appCtx.Logger)
		if err != nil {
			return err
		}

		httpServer := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			// A check may take the full fetch timeout before the response is written.
			WriteTimeout: secondsOrDefault(cfg.TimeoutSecs) + 15*time.Second,
			IdleTimeout:  120 * time.Second,
		}

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		return runServer(cmd.OutOrStdout(), httpServer, shutdown, cfg.ShutdownTimeout)
	},
}

// newServeHandler wires the fetcher, checker and API server from config.
func newServeHandler(cfg ServeRuntimeConfig, log *zap.Logger) (*api.Server, error) {
	locale, err := checker.ParseLocale(cfg.Lang)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	timeout := secondsOrDefault(cfg.TimeoutSecs)
	fetcher := checker.NewRestyFetcher(checker.FetcherOptions{
		Timeout:      timeout,
		BlockPrivate: !cfg.AllowPrivate,
		Logger:       log,
	})

	return api.NewServer(api.Config{
		Checker:       checker.NewClickjackingChecker(fetcher, timeout),
		Logger:        log,
		CORSOrigins:   cfg.CORSOrigins,
		DefaultLocale: locale,
	}), nil
}

// runServer serves until the listener fails or a signal arrives on shutdown,
// then drains in-flight requests for at most shutdownTimeout.
func runServer(out io.Writer, httpServer *http.Server, shutdown <-chan os.Signal, shutdownTimeout time.Duration) error {
	serverErrors := make(chan error, 1)

	go func() {
		fmt.Fprintf(out, "%s API server listening on %s\n", colorInfo("→"), httpServer.Addr)
		fmt.Fprintf(out, "%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		fmt.Fprintf(out, "\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			if closeErr := httpServer.Close(); closeErr != nil {
				return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
			}
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}

		fmt.Fprintf(out, "%s Server shutdown complete\n", colorInfo("✓"))
	}

	return nil
}

func init() {
	serveCmd.Flags().StringVar(&cliConfig.Serve.Addr, "addr", cliConfig.Serve.Addr, "Address for the API server")
	serveCmd.Flags().IntVarP(&cliConfig.Serve.TimeoutSecs, "timeout", "t", cliConfig.Serve.TimeoutSecs, "outbound request timeout in seconds")
	serveCmd.Flags().DurationVar(&cliConfig.Serve.ShutdownTimeout, "shutdown-timeout", cliConfig.Serve.ShutdownTimeout, "Graceful shutdown timeout")
	serveCmd.Flags().StringSliceVar(&cliConfig.Serve.CORSOrigins, "cors-origins", cliConfig.Serve.CORSOrigins, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().StringVar(&cliConfig.Serve.Lang, "lang", cliConfig.Serve.Lang, "default message language when Accept-Language matches nothing (id|en)")
	serveCmd.Flags().BoolVar(&cliConfig.Serve.AllowPrivate, "allow-private", cliConfig.Serve.AllowPrivate, "Allow checks against loopback, private and reserved addresses")
}
