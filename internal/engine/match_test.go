package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureMappings(t *testing.T) []Mapping {
	t.Helper()
	mappings, err := DecodeMappings(readFixture(t, "mappings.json"))
	require.NoError(t, err)
	return mappings
}

func TestFindMatches_Fixture(t *testing.T) {
	mappings := fixtureMappings(t)

	single := FindMatches("Zulrah's scales", mappings)
	require.Len(t, single, 1)
	assert.Equal(t, uint32(12934), single[0].ID)

	assert.Len(t, FindMatches("twisted", mappings), 23)
}

func TestFindMatches_CaseInsensitive(t *testing.T) {
	mappings := fixtureMappings(t)

	lower := FindMatches("zulrah's scales", mappings)
	upper := FindMatches("ZULRAH'S SCALES", mappings)
	assert.Equal(t, lower, upper)
	assert.Len(t, lower, 1)

	assert.Equal(t, FindMatches("twisted", mappings), FindMatches("TwIsTeD", mappings))
}

func TestFindMatches_KeepsInputOrder(t *testing.T) {
	mappings := []Mapping{
		{ID: 3, Name: "Rune axe"},
		{ID: 1, Name: "Bronze axe"},
		{ID: 2, Name: "Pickaxe"},
		{ID: 4, Name: "Coins"},
	}

	got := FindMatches("AXE", mappings)
	ids := make([]uint32, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []uint32{3, 1, 2}, ids)
}

func TestFindMatches_NoMatches(t *testing.T) {
	got := FindMatches("dragon claws", fixtureMappings(t))
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, FindMatches("anything", nil))
}

func TestFindMatches_EmptyQueryMatchesAll(t *testing.T) {
	mappings := fixtureMappings(t)
	assert.Len(t, FindMatches("", mappings), len(mappings))
}

func TestFindMatches_Unicode(t *testing.T) {
	mappings := []Mapping{{ID: 1, Name: "Ömega Äxe"}}
	assert.Len(t, FindMatches("ömega äxe", mappings), 1)
}
