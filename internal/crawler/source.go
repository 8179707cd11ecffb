package crawler

import (
	"context"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

// RawRecord is one unparsed record as delivered by a source: an XML node
// for the XML-based authorities, a column map for CSV ones.
type RawRecord = any

// Source encapsulates one authority's schema knowledge. FetchRaw retrieves
// and splits the raw document through the session's rate-limited, retried
// transport; ParseRecord converts a single raw record into the canonical
// model, returning a ParseError when required fields are absent. A
// ParseRecord failure is per-record, never fatal to the run.
type Source interface {
	Name() string
	FetchRaw(ctx context.Context, session *Session) ([]RawRecord, error)
	ParseRecord(raw RawRecord) (*model.SanctionEntity, error)
}
