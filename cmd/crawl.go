package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	pubsubclient "cloud.google.com/go/pubsub"
	gcsclient "cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	"github.com/Dateyes-glitch/sanctions-watch/internal/export"
	"github.com/Dateyes-glitch/sanctions-watch/internal/metrics"
	"github.com/Dateyes-glitch/sanctions-watch/internal/publisher"
	memorypublisher "github.com/Dateyes-glitch/sanctions-watch/internal/publisher/memory"
	gcppublisher "github.com/Dateyes-glitch/sanctions-watch/internal/publisher/pubsub"
	"github.com/Dateyes-glitch/sanctions-watch/internal/runner"
	"github.com/Dateyes-glitch/sanctions-watch/internal/sources"
	"github.com/Dateyes-glitch/sanctions-watch/internal/storage"
	gcsstorage "github.com/Dateyes-glitch/sanctions-watch/internal/storage/gcs"
	localstorage "github.com/Dateyes-glitch/sanctions-watch/internal/storage/local"
	memorystorage "github.com/Dateyes-glitch/sanctions-watch/internal/storage/memory"
	pgstore "github.com/Dateyes-glitch/sanctions-watch/internal/store/postgres"
)

// newCrawlCmd creates the 'crawl' subcommand.
func newCrawlCmd() *cobra.Command {
	var (
		sourceNames []string
		output      string
		format      string
		rateLimit   float64
		timeout     int
	)
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl sanctions data from the configured sources",
		Long: `Runs one full ingestion pass: every selected source is crawled
concurrently, results are normalized, deduplicated and enriched, raw
payloads are archived, and a run summary is published.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			if rateLimit > 0 {
				appCfg.Crawl.RateLimitSeconds = rateLimit
			}
			if timeout > 0 {
				appCfg.Crawl.TimeoutSeconds = timeout
			}
			if format != "json" && format != "csv" {
				return fmt.Errorf("unsupported format %q (want json or csv)", format)
			}
			return runCrawl(cmd.Context(), resolveSources(sourceNames), output, format)
		},
	}

	cmd.Flags().StringSliceVarP(&sourceNames, "source", "s", []string{"all"}, "source(s) to crawl")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json or csv)")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "rate limit in seconds between requests")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "request timeout in seconds")
	return cmd
}

func resolveSources(names []string) []string {
	for _, name := range names {
		if name == "all" {
			return sources.Names()
		}
	}
	return names
}

func runCrawl(ctx context.Context, sourceNames []string, output, format string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	blobs, closeBlobs, err := setupStorage(ctx)
	if err != nil {
		return err
	}
	defer closeBlobs()

	pub, closePub, err := setupPublisher(ctx)
	if err != nil {
		return err
	}
	defer closePub()

	store, closeStore, err := setupStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	run, err := runner.New(runner.Config{
		Sources:    sourceNames,
		Factory:    crawlerFactory,
		Blobs:      blobs,
		BlobPrefix: appCfg.Storage.Prefix,
		Store:      store,
		Publisher:  pub,
		Topic:      appCfg.PubSub.TopicName,
		Logger:     appLogger,
	})
	if err != nil {
		return err
	}

	result, err := run.Execute(ctx)
	if err != nil {
		return fmt.Errorf("crawl run: %w", err)
	}

	printSummary(result)

	if output != "" {
		if err := writeOutput(result, output, format); err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", output)
	}
	return nil
}

func crawlerFactory(name string, logger *zap.Logger) (*crawler.Crawler, error) {
	cfg, err := appCfg.SourceCrawlerConfig(name)
	if err != nil {
		return nil, err
	}
	return sources.NewCrawler(name, cfg, logger)
}

func setupStorage(ctx context.Context) (storage.BlobStore, func(), error) {
	noop := func() {}
	switch appCfg.Storage.Backend {
	case "gcs":
		client, err := gcsclient.NewClient(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("gcs client init: %w", err)
		}
		blobs, err := gcsstorage.New(client, gcsstorage.Config{Bucket: appCfg.Storage.GCSBucket})
		if err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("gcs blob store init: %w", err)
		}
		return blobs, func() { _ = client.Close() }, nil
	case "local":
		blobs, err := localstorage.New(localstorage.Config{BaseDir: appCfg.Storage.LocalDir})
		if err != nil {
			return nil, noop, fmt.Errorf("local blob store init: %w", err)
		}
		return blobs, noop, nil
	default:
		return memorystorage.NewBlobStore(), noop, nil
	}
}

func setupPublisher(ctx context.Context) (publisher.Publisher, func(), error) {
	noop := func() {}
	if appCfg.PubSub.ProjectID == "" || appCfg.PubSub.TopicName == "" {
		appLogger.Debug("no pub/sub topic configured, using in-memory publisher")
		return memorypublisher.New(), noop, nil
	}
	client, err := pubsubclient.NewClient(ctx, appCfg.PubSub.ProjectID)
	if err != nil {
		return nil, noop, fmt.Errorf("pubsub client init: %w", err)
	}
	topic := client.Topic(appCfg.PubSub.TopicName)
	closer := func() {
		topic.Stop()
		_ = client.Close()
	}
	return gcppublisher.New(topic), closer, nil
}

func setupStore(ctx context.Context) (runner.EntityStore, func(), error) {
	noop := func() {}
	if appCfg.DB.DSN == "" {
		appLogger.Debug("no database configured, skipping persistence")
		return nil, noop, nil
	}
	store, err := pgstore.NewEntityStore(ctx, pgstore.EntityStoreConfig{
		DSN:   appCfg.DB.DSN,
		Table: appCfg.DB.EntityTable,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("entity store init: %w", err)
	}
	return store, store.Close, nil
}

func printSummary(run *runner.Run) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tENTITIES\tERRORS\tDURATION")
	for _, name := range run.Summary.Sources {
		result := run.Results[name]
		duration, _ := result.Metadata["crawl_duration_seconds"].(float64)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1fs\n", name, result.TotalEntities, result.ErrorCount, duration)
	}
	fmt.Fprintf(w, "TOTAL\t%d\t%d\t-\n", run.Summary.TotalEntities, run.Summary.TotalErrors)
	_ = w.Flush()
}

func writeOutput(run *runner.Run, output, format string) error {
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	switch format {
	case "csv":
		err = export.WriteCSV(file, run.Summary.Sources, run.Results)
	default:
		err = export.WriteJSON(file, run.Summary.Sources, run.Results)
	}
	if err != nil {
		return err
	}
	return file.Close()
}
