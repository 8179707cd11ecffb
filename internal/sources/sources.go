// Package sources contains the per-authority parsers that turn each
// sanctions list's wire format into the canonical entity model, plus the
// registry used to construct crawlers by source name.
package sources

import (
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

// parseDate tries the given layouts in order and returns the first match.
// No match leaves the date absent and logs a warning; it is never an error.
func parseDate(logger *zap.Logger, layouts []string, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	logger.Warn("failed to parse date", zap.String("date", value))
	return nil
}

// identifierKeyword maps a source's free-text identifier type to the closed
// taxonomy by case-insensitive substring match. Tables are ordered; the
// first matching keyword wins and anything unmatched falls back to Other.
type identifierKeyword struct {
	keyword string
	typ     model.IdentifierType
}

func mapIdentifierType(table []identifierKeyword, raw string) model.IdentifierType {
	lower := strings.ToLower(raw)
	for _, entry := range table {
		if strings.Contains(lower, entry.keyword) {
			return entry.typ
		}
	}
	return model.IdentifierOther
}

// text returns the trimmed inner text of the first node matching expr under
// node, or "" when absent.
func text(node *xmlquery.Node, expr string) string {
	found := xmlquery.FindOne(node, expr)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.InnerText())
}

// rootElement returns the document's top-level element. Fixture payloads
// carry a single record at the root rather than an aggregate list.
func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// asRecords widens a node slice into the orchestrator's raw record slice,
// falling back to the root element when the aggregate query matched nothing.
func asRecords(doc *xmlquery.Node, nodes []*xmlquery.Node) []any {
	if len(nodes) == 0 {
		if root := rootElement(doc); root != nil {
			nodes = []*xmlquery.Node{root}
		}
	}
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n)
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// contains reports whether s contains any of the given substrings.
func contains(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
