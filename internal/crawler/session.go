package crawler

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Session is the scoped transport resource owned by one orchestrator run.
// It shields every fetch behind the instance's rate limiter and retry
// policy and classifies HTTP failures into the transient/permanent split.
type Session struct {
	cfg     Config
	fetcher Fetcher
	limiter *RateLimiter
	retry   RetryPolicy
	logger  *zap.Logger

	// lastBody holds the most recent successful response body so the
	// run can archive the raw payload after parsing.
	lastBody []byte
}

// Get fetches url and returns the response body. A 429 is surfaced as a
// transient HTTPStatusError and retried; any other non-2xx status is
// permanent and surfaces immediately.
func (s *Session) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := s.retry.Do(ctx, s.cfg.Source, func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		s.logger.Info("making request", zap.String("url", url))
		resp, err := s.fetcher.Fetch(ctx, FetchRequest{
			URL:       url,
			Headers:   s.cfg.Headers,
			UserAgent: s.cfg.UserAgent,
			Timeout:   s.cfg.Timeout,
			VerifySSL: s.cfg.VerifySSL,
		})
		if err != nil {
			s.logger.Error("request failed", zap.String("url", url), zap.Error(err))
			return &TransientError{Err: err}
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 400 {
			return &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	s.lastBody = body
	return body, nil
}
