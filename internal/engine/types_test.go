package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMappings(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"empty array", `[]`, 0, false},
		{"entries", `[{"id":2,"name":"Cannonball","members":true,"limit":11000}]`, 1, false},
		{"null", `null`, 0, true},
		{"object", `{"id":2}`, 0, true},
		{"negative id", `[{"id":-1,"name":"x"}]`, 0, true},
		{"truncated", `[{"id":2,`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMappings([]byte(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrDecodeFailed)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecodeMappings_OptionalFields(t *testing.T) {
	got, err := DecodeMappings([]byte(`[{"id":2,"name":"Cannonball","members":true,"limit":11000,"value":5}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Members)
	require.NotNil(t, got[0].Limit)
	assert.Equal(t, int64(11000), *got[0].Limit)
	assert.Nil(t, got[0].HighAlch)
}

func TestDecodePrices(t *testing.T) {
	table, err := DecodePrices(readFixture(t, "prices.json"))
	require.NoError(t, err)
	assert.Len(t, table, 33)

	scales, ok := table[12934]
	require.True(t, ok, "string key is reconciled to numeric id")
	assert.Nil(t, scales.High, "null high stays absent")
	require.NotNil(t, scales.Low)
	assert.Equal(t, uint32(42000), *scales.Low)
}

func TestDecodePrices_MissingFieldsAreAbsent(t *testing.T) {
	table, err := DecodePrices([]byte(`{"data":{"2":{"low":150}}}`))
	require.NoError(t, err)
	assert.Nil(t, table[2].High)
	assert.Nil(t, table[2].HighTime)
	assert.Equal(t, uint32(150), *table[2].Low)
}

func TestDecodePrices_Invalid(t *testing.T) {
	bodies := []string{
		`[]`,
		`{}`,
		`{"data":null}`,
		`{"data":{"abc":{"high":1}}}`,
		`{"data":{"-4":{"high":1}}}`,
		`{"data":{"4294967296":{"high":1}}}`,
		`{"data":{"1":{"high":-3}}}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			_, err := DecodePrices([]byte(body))
			require.ErrorIs(t, err, ErrDecodeFailed)
		})
	}
}

func TestDedupeMappings(t *testing.T) {
	t.Run("unique ids untouched", func(t *testing.T) {
		in := []Mapping{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
		out, dropped := DedupeMappings(in)
		assert.Equal(t, in, out)
		assert.Zero(t, dropped)
	})

	t.Run("last seen wins", func(t *testing.T) {
		in := []Mapping{
			{ID: 1, Name: "first"},
			{ID: 2, Name: "b"},
			{ID: 1, Name: "second"},
			{ID: 3, Name: "c"},
		}
		out, dropped := DedupeMappings(in)
		assert.Equal(t, 1, dropped)
		assert.Equal(t, []Mapping{
			{ID: 2, Name: "b"},
			{ID: 1, Name: "second"},
			{ID: 3, Name: "c"},
		}, out)
	})
}
