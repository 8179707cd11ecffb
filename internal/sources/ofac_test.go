package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

func TestOFACCrawlFixture(t *testing.T) {
	t.Parallel()

	result := crawlFixture(t, SourceOFAC, "testdata/ofac.xml")
	require.Empty(t, result.Errors)
	require.Len(t, result.Entities, 2)

	person := result.Entities[0]
	assert.Equal(t, "ofac-36000", person.ID)
	assert.Equal(t, "36000", person.SourceID)
	assert.Equal(t, "John Doe", person.Name)
	assert.Equal(t, model.EntityTypePerson, person.EntityType)
	// An aka needs both name halves; the partial one is dropped.
	assert.Equal(t, []string{"Johnny Doe"}, person.AlternativeNames)
	assert.Equal(t, "Iranian", person.Nationality)
	assert.Equal(t, "Director", person.Position)

	require.NotNil(t, person.Dates)
	require.NotNil(t, person.Dates.BirthDate)
	assert.Equal(t, time.Date(1975, time.January, 12, 0, 0, 0, 0, time.UTC), person.Dates.BirthDate.UTC())

	require.Len(t, person.Identifiers, 1)
	assert.Equal(t, model.IdentifierPassport, person.Identifiers[0].Type)
	assert.Equal(t, "X9876543", person.Identifiers[0].Value)

	require.Len(t, person.Addresses, 1)
	assert.Equal(t, "1 River Road, Tehran, Iran", person.Addresses[0].FullAddress)

	require.Len(t, person.SanctionsPrograms, 1)
	assert.Equal(t, "IRAN", person.SanctionsPrograms[0].Name)
	assert.Equal(t, "US Treasury OFAC", person.SanctionsPrograms[0].Authority)

	org := result.Entities[1]
	assert.Equal(t, "ofac-36001", org.ID)
	assert.Equal(t, "Blue Star Shipping", org.Name)
	assert.Equal(t, model.EntityTypeEntity, org.EntityType)
	require.Len(t, org.SanctionsPrograms, 1)
	assert.Equal(t, "SDGT", org.SanctionsPrograms[0].Name)
}
