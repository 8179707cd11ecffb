package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/api"
	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	"github.com/Dateyes-glitch/sanctions-watch/internal/metrics"
	"github.com/Dateyes-glitch/sanctions-watch/internal/sources"
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves source inventory, per-source health and Prometheus metrics
over HTTP. Crawl runs are triggered via the crawl command, not the API.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	builder := func(name string) (*crawler.Crawler, error) {
		return crawlerFactory(name, appLogger)
	}
	server := api.NewServer(sources.Names(), builder, appLogger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", appCfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("http server started", zap.Int("port", appCfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	appLogger.Info("shutdown complete")
	return nil
}
