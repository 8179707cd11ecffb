package model

import "time"

// CrawlResult is the envelope produced by one orchestrated run of a single
// source. It is assembled once, after processing finishes, and is not
// mutated afterwards. TotalEntities always equals len(Entities) and
// ErrorCount always equals len(Errors); a run with zero entities and a
// non-empty error list is a valid outcome, not a failure.
type CrawlResult struct {
	Source         string            `json:"source"`
	Entities       []*SanctionEntity `json:"entities"`
	CrawlTimestamp time.Time         `json:"crawl_timestamp"`
	TotalEntities  int               `json:"total_entities"`
	SuccessCount   int               `json:"success_count"`
	ErrorCount     int               `json:"error_count"`
	Errors         []string          `json:"errors,omitempty"`
	Metadata       map[string]any    `json:"metadata,omitempty"`
}

// NewCrawlResult builds a consistent envelope for the given run window.
// Duration and window metadata are always populated.
func NewCrawlResult(source string, entities []*SanctionEntity, errs []string, start, end time.Time) CrawlResult {
	return CrawlResult{
		Source:         source,
		Entities:       entities,
		CrawlTimestamp: start,
		TotalEntities:  len(entities),
		SuccessCount:   len(entities),
		ErrorCount:     len(errs),
		Errors:         errs,
		Metadata: map[string]any{
			"crawl_duration_seconds": end.Sub(start).Seconds(),
			"start_time":             start.Format(time.RFC3339Nano),
			"end_time":               end.Format(time.RFC3339Nano),
		},
	}
}
