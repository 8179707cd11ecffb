// Package pipeline post-processes crawled entities before export or
// persistence. The stages are pure over their inputs and run in a fixed
// order: normalize, deduplicate, enrich.
package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/biter777/countries"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

type Pipeline struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Process runs all stages in order and returns the surviving entities.
func (p *Pipeline) Process(entities []*model.SanctionEntity) []*model.SanctionEntity {
	before := len(entities)
	entities = p.Normalize(entities)
	entities = p.Deduplicate(entities)
	entities = p.Enrich(entities)
	p.logger.Info("pipeline complete",
		zap.Int("input_entities", before),
		zap.Int("output_entities", len(entities)))
	return entities
}

// Normalize trims names and mirrors the entity type, lowercased, into
// the normalized section of additional data.
func (p *Pipeline) Normalize(entities []*model.SanctionEntity) []*model.SanctionEntity {
	for _, entity := range entities {
		entity.Name = strings.TrimSpace(entity.Name)
		for i, alias := range entity.AlternativeNames {
			entity.AlternativeNames[i] = strings.TrimSpace(alias)
		}
		entity.NormalizedData()["entity_type"] = strings.ToLower(string(entity.EntityType))
		if entity.Nationality != "" {
			if country := countries.ByName(entity.Nationality); country != countries.Unknown {
				entity.NormalizedData()["nationality_iso2"] = country.Alpha2()
			}
		}
	}
	return entities
}

// Deduplicate keeps the first entity seen for each source and
// case-insensitive name pair.
func (p *Pipeline) Deduplicate(entities []*model.SanctionEntity) []*model.SanctionEntity {
	seen := make(map[string]struct{}, len(entities))
	result := make([]*model.SanctionEntity, 0, len(entities))
	for _, entity := range entities {
		key := fmt.Sprintf("%s:%s", entity.Source, strings.ToLower(entity.Name))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, entity)
	}
	if dropped := len(entities) - len(result); dropped > 0 {
		p.logger.Info("removed duplicate entities", zap.Int("dropped", dropped))
	}
	return result
}

// Enrich backfills a placeholder program for entities that arrived
// without one and scores data completeness. The score rewards the
// presence of an address, identifiers and aliases.
func (p *Pipeline) Enrich(entities []*model.SanctionEntity) []*model.SanctionEntity {
	for _, entity := range entities {
		if len(entity.SanctionsPrograms) == 0 {
			entity.AddProgram(model.SanctionProgram{
				Name:        "Unknown Program",
				Authority:   strings.ToUpper(entity.Source),
				ProgramType: "general",
			})
		}
		score := 0.0
		if len(entity.Addresses) > 0 {
			score += 0.4
		}
		if len(entity.Identifiers) > 0 {
			score += 0.4
		}
		if len(entity.AlternativeNames) > 0 {
			score += 0.2
		}
		score = math.Round(math.Min(score, 1.0)*100) / 100
		entity.DataQualityScore = &score
	}
	return entities
}
