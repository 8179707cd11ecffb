// Package runner executes multi-source crawl runs: it fans out one
// crawler per source, merges the results, post-processes the merged
// entities, archives the raw payloads, and notifies downstream
// consumers.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
	"github.com/Dateyes-glitch/sanctions-watch/internal/pipeline"
	"github.com/Dateyes-glitch/sanctions-watch/internal/publisher"
	"github.com/Dateyes-glitch/sanctions-watch/internal/sources"
	"github.com/Dateyes-glitch/sanctions-watch/internal/storage"
)

// EntityStore persists post-processed entities. A nil store disables
// persistence for the run.
type EntityStore interface {
	UpsertEntities(ctx context.Context, runID string, entities []*model.SanctionEntity) error
}

// CrawlerFactory builds a ready-to-run crawler for a named source.
type CrawlerFactory func(name string, logger *zap.Logger) (*crawler.Crawler, error)

// Config wires the runner's collaborators. Store, Blobs and Publisher
// may be left unset to disable the corresponding step.
type Config struct {
	Sources    []string
	Factory    CrawlerFactory
	Blobs      storage.BlobStore
	BlobPrefix string
	Store      EntityStore
	Publisher  publisher.Publisher
	Topic      string
	Logger     *zap.Logger
}

// Runner coordinates one crawl run across all configured sources.
type Runner struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

// Summary is the run report published after every run.
type Summary struct {
	RunID         string         `json:"run_id"`
	Sources       []string       `json:"sources"`
	TotalEntities int            `json:"total_entities"`
	TotalErrors   int            `json:"total_errors"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	EntityCounts  map[string]int `json:"entity_counts"`
	ErrorCounts   map[string]int `json:"error_counts"`
}

// Run holds everything one invocation produced.
type Run struct {
	ID       string
	Results  map[string]model.CrawlResult
	Merged   []*model.SanctionEntity
	Summary  Summary
	Archives map[string]string
}

// New builds a runner. The source list must be non-empty and every
// name must resolve through the factory.
func New(cfg Config) (*Runner, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("runner: at least one source is required")
	}
	if cfg.Factory == nil {
		return nil, fmt.Errorf("runner: crawler factory is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		pipeline: pipeline.New(cfg.Logger.Named("pipeline")),
		logger:   cfg.Logger,
	}, nil
}

// Execute performs one full run. Individual source failures never abort
// the run; they surface in the per-source results and the summary. Only
// setup problems (an unknown source) or persistence failures return an
// error.
func (r *Runner) Execute(ctx context.Context) (*Run, error) {
	runID := uuid.NewString()
	start := time.Now().UTC()
	logger := r.logger.With(zap.String("run_id", runID))
	logger.Info("starting run", zap.Strings("sources", r.cfg.Sources))

	crawlers := make(map[string]*crawler.Crawler, len(r.cfg.Sources))
	for _, name := range r.cfg.Sources {
		c, err := r.cfg.Factory(name, logger)
		if err != nil {
			return nil, fmt.Errorf("build crawler for %s: %w", name, err)
		}
		crawlers[name] = c
	}

	// One goroutine per source. Crawl never panics or returns an error,
	// so the fan-in is a plain WaitGroup.
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]model.CrawlResult, len(crawlers))
	for name, c := range crawlers {
		wg.Add(1)
		go func(name string, c *crawler.Crawler) {
			defer wg.Done()
			result := c.Crawl(ctx)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()

	// Merge in configured source order so runs are deterministic.
	var merged []*model.SanctionEntity
	for _, name := range r.cfg.Sources {
		merged = append(merged, results[name].Entities...)
	}
	merged = r.pipeline.Process(merged)

	archives := r.archivePayloads(ctx, runID, crawlers, logger)

	if r.cfg.Store != nil {
		if err := r.cfg.Store.UpsertEntities(ctx, runID, merged); err != nil {
			return nil, fmt.Errorf("persist run %s: %w", runID, err)
		}
	}

	summary := r.buildSummary(runID, results, merged, start)
	if r.cfg.Publisher != nil {
		if _, err := r.cfg.Publisher.Publish(ctx, r.cfg.Topic, summary); err != nil {
			logger.Warn("failed to publish run summary", zap.Error(err))
		}
	}

	logger.Info("run complete",
		zap.Int("total_entities", summary.TotalEntities),
		zap.Int("total_errors", summary.TotalErrors),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return &Run{
		ID:       runID,
		Results:  results,
		Merged:   merged,
		Summary:  summary,
		Archives: archives,
	}, nil
}

// archivePayloads stores each source's raw document under
// <prefix>/<run-id>/<source>.<ext>. Archive failures are logged, never
// fatal.
func (r *Runner) archivePayloads(ctx context.Context, runID string, crawlers map[string]*crawler.Crawler, logger *zap.Logger) map[string]string {
	if r.cfg.Blobs == nil {
		return nil
	}
	prefix := r.cfg.BlobPrefix
	if prefix == "" {
		prefix = "runs"
	}
	archives := make(map[string]string)
	for _, name := range r.cfg.Sources {
		payload := crawlers[name].RawPayload()
		if len(payload) == 0 {
			continue
		}
		objectPath := path.Join(prefix, runID, name+payloadExtension(name))
		uri, err := r.cfg.Blobs.PutObject(ctx, objectPath, payloadContentType(name), bytes.NewReader(payload))
		if err != nil {
			logger.Warn("failed to archive payload", zap.String("source", name), zap.Error(err))
			continue
		}
		archives[name] = uri
	}
	return archives
}

func (r *Runner) buildSummary(runID string, results map[string]model.CrawlResult, merged []*model.SanctionEntity, start time.Time) Summary {
	summary := Summary{
		RunID:        runID,
		Sources:      r.cfg.Sources,
		StartedAt:    start,
		FinishedAt:   time.Now().UTC(),
		EntityCounts: make(map[string]int, len(results)),
		ErrorCounts:  make(map[string]int, len(results)),
	}
	for name, result := range results {
		summary.EntityCounts[name] = result.TotalEntities
		summary.ErrorCounts[name] = result.ErrorCount
		summary.TotalErrors += result.ErrorCount
	}
	summary.TotalEntities = len(merged)
	return summary
}

func payloadExtension(source string) string {
	if source == sources.SourceUK {
		return ".csv"
	}
	return ".xml"
}

func payloadContentType(source string) string {
	if source == sources.SourceUK {
		return "text/csv"
	}
	return "application/xml"
}
