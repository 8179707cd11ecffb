package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

// crawlFixture runs a full crawl of a source against a local fixture.
func crawlFixture(t *testing.T, source, fixture string) model.CrawlResult {
	t.Helper()

	cfg, err := DefaultConfig(source)
	require.NoError(t, err)
	cfg.RateLimit = time.Millisecond
	cfg.CustomSettings = map[string]any{"mock_file": fixture}

	c, err := NewCrawler(source, cfg, zap.NewNop())
	require.NoError(t, err)
	return c.Crawl(context.Background())
}

func TestEUCrawlFixture(t *testing.T) {
	t.Parallel()

	result := crawlFixture(t, SourceEU, "testdata/eu.xml")
	require.Empty(t, result.Errors)
	require.Len(t, result.Entities, 2)
	assert.Equal(t, 2, result.TotalEntities)
	assert.Equal(t, 2, result.SuccessCount)

	person := result.Entities[0]
	assert.Equal(t, "eu-100", person.ID)
	assert.Equal(t, "100", person.SourceID)
	assert.Equal(t, "Viktor Petrov", person.Name)
	assert.Equal(t, []string{"V. Petrov"}, person.AlternativeNames)
	assert.Equal(t, model.EntityTypePerson, person.EntityType)
	assert.Equal(t, model.StatusActive, person.SanctionStatus)
	assert.Equal(t, SourceEU, person.Source)
	assert.Equal(t, "Minister", person.Position)
	assert.Equal(t, "RU", person.Nationality)

	require.NotNil(t, person.Dates)
	require.NotNil(t, person.Dates.BirthDate)
	assert.Equal(t, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), person.Dates.BirthDate.UTC())

	require.Len(t, person.Identifiers, 1)
	assert.Equal(t, model.IdentifierPassport, person.Identifiers[0].Type)
	assert.Equal(t, "P1234567", person.Identifiers[0].Value)
	assert.Equal(t, "RU", person.Identifiers[0].IssuingCountry)

	require.Len(t, person.Addresses, 1)
	assert.Equal(t, "12 Main Street, Moscow, 101000, Russia", person.Addresses[0].FullAddress)

	require.Len(t, person.SanctionsPrograms, 1)
	assert.Equal(t, "EU Regulation 2022/123", person.SanctionsPrograms[0].Name)
	assert.Equal(t, "European Union", person.SanctionsPrograms[0].Authority)
	require.Len(t, person.References, 1)
	assert.Equal(t, "2022/123", person.References[0].ReferenceNumber)

	org := result.Entities[1]
	assert.Equal(t, "eu-200", org.ID)
	assert.Equal(t, "Alfa Holdings LLC", org.Name)
	assert.Equal(t, model.EntityTypeEntity, org.EntityType)
	assert.Empty(t, org.AlternativeNames)
}

func TestEUParseRecordRejectsWrongType(t *testing.T) {
	t.Parallel()

	source := NewEU(DefaultEUConfig(), zap.NewNop())
	_, err := source.ParseRecord("not a node")
	require.Error(t, err)
	var parseErr *crawler.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
