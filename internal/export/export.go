// Package export writes crawl results to JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

// document is the JSON export envelope.
type document struct {
	Timestamp     string                  `json:"timestamp"`
	TotalEntities int                     `json:"total_entities"`
	Sources       []string                `json:"sources"`
	Entities      []*model.SanctionEntity `json:"entities"`
}

// csvColumns is the flat record layout for CSV export.
var csvColumns = []string{
	"source", "id", "name", "entity_type", "sanction_status",
	"nationality", "last_updated", "sanctions_program_names",
}

// WriteJSON writes all entities from the given results as one document.
// Sources controls both the envelope's source list and entity order.
func WriteJSON(w io.Writer, sources []string, results map[string]model.CrawlResult) error {
	var entities []*model.SanctionEntity
	for _, source := range sources {
		entities = append(entities, results[source].Entities...)
	}
	doc := document{
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		TotalEntities: len(entities),
		Sources:       sources,
		Entities:      entities,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode export document: %w", err)
	}
	return nil
}

// WriteCSV writes one flat row per entity, preserving source order.
func WriteCSV(w io.Writer, sources []string, results map[string]model.CrawlResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, source := range sources {
		for _, entity := range results[source].Entities {
			programs := make([]string, 0, len(entity.SanctionsPrograms))
			for _, program := range entity.SanctionsPrograms {
				programs = append(programs, program.Name)
			}
			row := []string{
				source,
				entity.ID,
				entity.Name,
				string(entity.EntityType),
				string(entity.SanctionStatus),
				entity.Nationality,
				entity.LastUpdated.UTC().Format(time.RFC3339),
				strings.Join(programs, "; "),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
