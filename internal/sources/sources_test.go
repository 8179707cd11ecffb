package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/model"
)

func TestParseDateFirstLayoutWins(t *testing.T) {
	t.Parallel()

	layouts := []string{"02/01/2006", "01/02/2006"}
	parsed := parseDate(zap.NewNop(), layouts, "03/04/2020")
	require.NotNil(t, parsed)
	// Day-first is tried before month-first, so 03/04 is April 3rd.
	assert.Equal(t, time.Date(2020, time.April, 3, 0, 0, 0, 0, time.UTC), parsed.UTC())
}

func TestParseDateYearOnly(t *testing.T) {
	t.Parallel()

	parsed := parseDate(zap.NewNop(), []string{"2006-01-02", "2006"}, "2019")
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), parsed.UTC())
}

func TestParseDateUnpaddedValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		layouts []string
		value   string
		want    time.Time
	}{
		{"ofac unpadded day", ofacDateLayouts, "1 Jan 1975", time.Date(1975, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"ofac unpadded slashes", ofacDateLayouts, "3/4/2020", time.Date(2020, time.April, 3, 0, 0, 0, 0, time.UTC)},
		{"eu unpadded iso", euDateLayouts, "2021-7-4", time.Date(2021, time.July, 4, 0, 0, 0, 0, time.UTC)},
		{"un unpadded day", unDateLayouts, "5 Mar 1990", time.Date(1990, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"uk unpadded slashes", ukDateLayouts, "7/8/1999", time.Date(1999, time.August, 7, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			parsed := parseDate(zap.NewNop(), tc.layouts, tc.value)
			require.NotNil(t, parsed)
			assert.Equal(t, tc.want, parsed.UTC())
		})
	}
}

func TestParseDateUnparseable(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseDate(zap.NewNop(), []string{"2006-01-02"}, "not a date"))
	assert.Nil(t, parseDate(zap.NewNop(), []string{"2006-01-02"}, ""))
}

func TestMapIdentifierType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.IdentifierPassport, mapIdentifierType(euIdentifierTable, "Passport Number"))
	assert.Equal(t, model.IdentifierNationalID, mapIdentifierType(euIdentifierTable, "National ID Card"))
	assert.Equal(t, model.IdentifierOther, mapIdentifierType(euIdentifierTable, "something else"))
	// Table order decides ties: "national identity card" hits national
	// before identity in the UN table.
	assert.Equal(t, model.IdentifierNationalID, mapIdentifierType(unIdentifierTable, "National Identity Card"))
	assert.Equal(t, model.IdentifierSwiftBic, mapIdentifierType(ofacIdentifierTable, "SWIFT/BIC"))
}

func TestJoinNonEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", joinNonEmpty(" ", "a", "", "b"))
	assert.Equal(t, "", joinNonEmpty(" ", "", ""))
}

func TestRegistryNames(t *testing.T) {
	t.Parallel()

	names := Names()
	assert.Equal(t, []string{SourceEU, SourceOFAC, SourceUK, SourceUN}, names)

	_, err := DefaultConfig("nope")
	assert.Error(t, err)

	cfg, err := DefaultConfig(SourceEU)
	require.NoError(t, err)
	assert.Equal(t, SourceEU, cfg.Source)
}
