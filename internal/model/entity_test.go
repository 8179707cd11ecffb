package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityDefaults(t *testing.T) {
	t.Parallel()

	e := NewEntity("eu-42", "Viktor Petrov", EntityTypePerson, "eu-sanctions")
	assert.Equal(t, "eu-42", e.ID)
	assert.Equal(t, "Viktor Petrov", e.Name)
	assert.Equal(t, EntityTypePerson, e.EntityType)
	assert.Equal(t, "eu-sanctions", e.Source)
	assert.Equal(t, StatusActive, e.SanctionStatus)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.LastUpdated)
	assert.NotNil(t, e.AdditionalData)
	assert.Nil(t, e.DataQualityScore)
}

func TestAddAlias(t *testing.T) {
	t.Parallel()

	e := NewEntity("id", "Primary Name", EntityTypeEntity, "ofac")
	e.AddAlias("Alias One")
	e.AddAlias("  Alias One  ")
	e.AddAlias("Primary Name")
	e.AddAlias("")
	e.AddAlias("   ")
	e.AddAlias("Alias Two")

	assert.Equal(t, []string{"Alias One", "Alias Two"}, e.AlternativeNames)
}

func TestNormalizedData(t *testing.T) {
	t.Parallel()

	e := NewEntity("id", "Name", EntityTypeUnknown, "un-sanctions")
	e.NormalizedData()["entity_type"] = "unknown"

	// The sub-map is stable across calls.
	assert.Equal(t, "unknown", e.NormalizedData()["entity_type"])

	// A nil extension map is repaired rather than panicking.
	e.AdditionalData = nil
	e.NormalizedData()["k"] = "v"
	assert.Equal(t, "v", e.NormalizedData()["k"])
}

func TestEntityJSONRoundTrip(t *testing.T) {
	t.Parallel()

	born := time.Date(1975, time.January, 12, 0, 0, 0, 0, time.UTC)
	e := NewEntity("ofac-36000", "John Doe", EntityTypePerson, "ofac")
	e.Dates = &EntityDates{BirthDate: &born}
	e.AddIdentifier(Identifier{Type: IdentifierPassport, Value: "X9876543", IssuingCountry: "Iran"})
	e.AddProgram(SanctionProgram{Name: "IRAN", Authority: "OFAC", ProgramType: "US Sanctions"})

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var got SanctionEntity
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, SanctionStatus("active"), got.SanctionStatus)
	require.NotNil(t, got.Dates)
	require.NotNil(t, got.Dates.BirthDate)
	assert.True(t, born.Equal(*got.Dates.BirthDate))
	require.Len(t, got.Identifiers, 1)
	assert.Equal(t, IdentifierPassport, got.Identifiers[0].Type)
}

func TestNewCrawlResult(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	entities := []*SanctionEntity{
		NewEntity("a", "A", EntityTypePerson, "ofac"),
		NewEntity("b", "B", EntityTypeEntity, "ofac"),
	}
	errs := []string{"validation failed for entity: c"}

	result := NewCrawlResult("ofac", entities, errs, start, end)
	assert.Equal(t, "ofac", result.Source)
	assert.Equal(t, len(result.Entities), result.TotalEntities)
	assert.Equal(t, len(result.Entities), result.SuccessCount)
	assert.Equal(t, len(result.Errors), result.ErrorCount)
	assert.Equal(t, start, result.CrawlTimestamp)
	assert.Equal(t, 1.5, result.Metadata["crawl_duration_seconds"])
	assert.Equal(t, start.Format(time.RFC3339Nano), result.Metadata["start_time"])
}

func TestNewCrawlResultEmptyRun(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	result := NewCrawlResult("uk-treasury", nil, nil, now, now)
	assert.Equal(t, 0, result.TotalEntities)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Empty(t, result.Entities)
	assert.Empty(t, result.Errors)
}
