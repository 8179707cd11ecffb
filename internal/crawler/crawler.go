// Package crawler implements the source-agnostic ingestion orchestrator:
// per-source configuration, rate limiting, retry, the transport session,
// and the crawl state machine that turns raw records into a CrawlResult.
package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/metrics"
	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

// HealthStatus is a point-in-time snapshot of a crawler, produced without
// performing any I/O.
type HealthStatus struct {
	Source          string         `json:"source"`
	Status          string         `json:"status"`
	LastRequestTime time.Time      `json:"last_request_time,omitzero"`
	Config          map[string]any `json:"config"`
}

// Crawler drives one source end to end. A single instance owns its
// transport session, rate limiter, and retry policy for the duration of a
// run; instances share no mutable state and may run concurrently.
type Crawler struct {
	cfg     Config
	source  Source
	fetcher Fetcher
	limiter *RateLimiter
	retry   RetryPolicy
	logger  *zap.Logger
	session *Session

	rawPayload []byte
}

// New validates the configuration and builds a crawler for the source.
// Configuration problems fail here, before any I/O.
func New(source Source, cfg Config, fetcher Fetcher, logger *zap.Logger) (*Crawler, error) {
	if source == nil {
		return nil, fmt.Errorf("crawler: source is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("crawler: fetcher is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		cfg:     cfg,
		source:  source,
		fetcher: fetcher,
		limiter: NewRateLimiter(cfg.Source, cfg.RateLimit),
		retry:   NewRetryPolicy(cfg.MaxRetries),
		logger:  logger.With(zap.String("source", cfg.Source)),
	}, nil
}

// Crawl runs the full ingestion for this source and always returns a
// well-formed result: run-level failures (transport acquisition, document
// fetch or top-level parse) land in the error list, per-record parse
// failures are logged and skipped, and invalid entities are dropped with a
// recorded error. Crawl itself never returns an error.
func (c *Crawler) Crawl(ctx context.Context) model.CrawlResult {
	start := time.Now().UTC()
	var entities []*model.SanctionEntity
	var errs []string

	c.logger.Info("starting crawl")

	c.openSession()
	func() {
		defer c.closeSession()

		raws, err := c.source.FetchRaw(ctx, c.session)
		c.rawPayload = c.session.lastBody
		if err != nil {
			errs = append(errs, fmt.Sprintf("crawl failed for %s: %v", c.cfg.Source, err))
			return
		}
		for _, raw := range raws {
			entity, err := c.source.ParseRecord(raw)
			if err != nil {
				c.logger.Warn("failed to parse record", zap.Error(err))
				continue
			}
			if c.validate(entity) {
				entities = append(entities, entity)
			} else {
				errs = append(errs, fmt.Sprintf("validation failed for entity: %s", entity.ID))
			}
		}
	}()

	end := time.Now().UTC()
	result := model.NewCrawlResult(c.cfg.Source, entities, errs, start, end)

	outcome := "success"
	if result.ErrorCount > 0 {
		outcome = "partial"
	}
	metrics.RecordRun(c.cfg.Source, outcome, end.Sub(start), result.TotalEntities, result.ErrorCount)
	c.logger.Info("crawl completed",
		zap.Int("total_entities", result.TotalEntities),
		zap.Int("errors", result.ErrorCount),
		zap.Float64("duration_seconds", end.Sub(start).Seconds()),
	)
	return result
}

// HealthStatus reports the crawler's readiness and effective configuration
// without touching the network.
func (c *Crawler) HealthStatus() HealthStatus {
	status := "not_initialized"
	if c.session != nil {
		status = "ready"
	}
	return HealthStatus{
		Source:          c.cfg.Source,
		Status:          status,
		LastRequestTime: c.limiter.LastRequest(),
		Config: map[string]any{
			"base_url":   c.cfg.BaseURL,
			"rate_limit": c.cfg.RateLimit.Seconds(),
			"timeout":    c.cfg.Timeout.Seconds(),
		},
	}
}

// Config returns a copy of the effective configuration.
func (c *Crawler) Config() Config {
	return c.cfg
}

// RawPayload returns the bytes fetched by the most recent Crawl, or nil
// when nothing was fetched. Callers use it to archive the source
// document alongside the parsed result.
func (c *Crawler) RawPayload() []byte {
	return c.rawPayload
}

func (c *Crawler) openSession() {
	c.session = &Session{
		cfg:     c.cfg,
		fetcher: c.fetcher,
		limiter: c.limiter,
		retry:   c.retry,
		logger:  c.logger,
	}
}

// closeSession releases the transport scope. It runs on every exit path of
// Crawl, success or failure.
func (c *Crawler) closeSession() {
	c.session = nil
}

// validate applies the entity invariants: name, id, and source must all be
// non-blank after trimming. It never fails the run, only the entity.
func (c *Crawler) validate(entity *model.SanctionEntity) bool {
	switch {
	case entity == nil:
		return false
	case strings.TrimSpace(entity.Name) == "":
		c.logger.Warn("entity validation failed", zap.String("entity_id", entity.ID), zap.String("reason", "name is required"))
		return false
	case strings.TrimSpace(entity.ID) == "":
		c.logger.Warn("entity validation failed", zap.String("reason", "id is required"))
		return false
	case strings.TrimSpace(entity.Source) == "":
		c.logger.Warn("entity validation failed", zap.String("entity_id", entity.ID), zap.String("reason", "source is required"))
		return false
	}
	return true
}
