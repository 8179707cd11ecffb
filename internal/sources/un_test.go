package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

func TestUNCrawlFixture(t *testing.T) {
	t.Parallel()

	result := crawlFixture(t, SourceUN, "testdata/un.xml")
	require.Empty(t, result.Errors)
	require.Len(t, result.Entities, 2)

	person := result.Entities[0]
	assert.Equal(t, "un-6908555", person.ID)
	assert.Equal(t, "6908555", person.SourceID)
	assert.Equal(t, "Abdul Rahman", person.Name)
	assert.Equal(t, model.EntityTypePerson, person.EntityType)
	// Aliases carry the list's quality marker verbatim.
	assert.Equal(t, []string{"Abd al-Rahman Good"}, person.AlternativeNames)
	assert.Equal(t, "Afghan", person.Nationality)

	require.NotNil(t, person.Dates)
	require.NotNil(t, person.Dates.BirthDate)
	assert.Equal(t, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), person.Dates.BirthDate.UTC())

	require.Len(t, person.Identifiers, 1)
	assert.Equal(t, model.IdentifierPassport, person.Identifiers[0].Type)
	assert.Equal(t, "AF123456", person.Identifiers[0].Value)
	assert.Equal(t, "Afghanistan", person.Identifiers[0].IssuingCountry)

	require.Len(t, person.Addresses, 1)
	assert.Equal(t, "Kandahar, Afghanistan", person.Addresses[0].FullAddress)

	require.Len(t, person.SanctionsPrograms, 1)
	assert.Equal(t, "UN Al-Qaida", person.SanctionsPrograms[0].Name)
	require.Len(t, person.References, 1)
	assert.Equal(t, "Listed on UN sanctions list: 2001-10-06", person.References[0].AdditionalInfo)

	org := result.Entities[1]
	assert.Equal(t, "un-113448", org.ID)
	assert.Equal(t, "Desert Trading Company", org.Name)
	assert.Equal(t, model.EntityTypeEntity, org.EntityType)
	// Birth dates only apply to individuals; absent means nil, not zero.
	assert.Nil(t, org.Dates)
	require.Len(t, org.Addresses, 1)
	assert.Equal(t, "Mosul, Iraq", org.Addresses[0].FullAddress)
}
