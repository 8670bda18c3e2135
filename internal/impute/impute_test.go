package impute

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
)

func load(t *testing.T, records ...[]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords("t.csv", records, dataset.DefaultOptions())
	require.NoError(t, err)
	return ds
}

func column(ds *dataset.Dataset, j int) []string {
	out := make([]string, ds.Rows())
	for i := range out {
		out[i] = ds.Value(i, j)
	}
	return out
}

func TestFill_ReplacesEveryMissingCell(t *testing.T) {
	ds := load(t,
		[]string{"A", "B"},
		[]string{"1", "x"},
		[]string{"", "y"},
		[]string{"3", ""},
	)
	res, err := Fill(ds, MapLookup(map[string]string{"A": "2", "B": "z"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, res.Filled())
	assert.Empty(t, res.Warnings())
	assert.Equal(t, 0, ds.MissingTotal())
	assert.Equal(t, []string{"1", "2", "3"}, column(ds, 0))
	assert.Equal(t, []string{"x", "y", "z"}, column(ds, 1))
}

func TestFill_OnlyAsksColumnsWithMissing(t *testing.T) {
	ds := load(t,
		[]string{"full", "gap", "other"},
		[]string{"1", "", "a"},
		[]string{"2", "5", ""},
	)
	var asked []string
	_, err := Fill(ds, func(col string) (string, bool) {
		asked = append(asked, col)
		return "", false
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gap", "other"}, asked)
}

func TestFill_InvalidNumericSkipsOnlyThatColumn(t *testing.T) {
	ds := load(t,
		[]string{"n", "s", "m"},
		[]string{"1", "a", "4"},
		[]string{"", "", ""},
	)
	before := column(ds, 0)
	res, err := Fill(ds, MapLookup(map[string]string{"n": "abc", "s": "b", "m": "4.5"}))
	require.NoError(t, err)

	assert.Equal(t, before, column(ds, 0))
	assert.True(t, ds.IsMissing(1, 0))
	assert.Equal(t, []string{"a", "b"}, column(ds, 1))
	assert.Equal(t, []string{"4", "4.5"}, column(ds, 2))

	require.Len(t, res.Warnings(), 1)
	var inv *InvalidNumericError
	require.True(t, errors.As(res.Warnings()[0], &inv))
	assert.Equal(t, "n", inv.Column)
	assert.Equal(t, []string{"s", "m"}, res.Filled())
}

func TestFill_SkippedAndUnsupported(t *testing.T) {
	ds := load(t,
		[]string{"flag", "txt"},
		[]string{"true", "a"},
		[]string{"", ""},
	)
	res, err := Fill(ds, MapLookup(map[string]string{"flag": "false"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"txt"}, res.Skipped())
	require.Len(t, res.Columns, 2)
	assert.Equal(t, Unsupported, res.Columns[0].Outcome)
	assert.Equal(t, 2, ds.MissingTotal())
}

func TestFill_TextVerbatimIncludingNumbers(t *testing.T) {
	ds := load(t,
		[]string{"s"},
		[]string{"a"},
		[]string{""},
	)
	_, err := Fill(ds, MapLookup(map[string]string{"s": " 42 "}))
	require.NoError(t, err)
	assert.Equal(t, " 42 ", ds.Value(1, 0))
}

func TestFill_NilArguments(t *testing.T) {
	_, err := Fill(nil, MapLookup(nil))
	assert.Error(t, err)
	_, err = Fill(load(t, []string{"a"}, []string{"1"}), nil)
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	m, err := ParseAssignments([]string{"A=2", " B =x=y", "C="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "2", "B": "x=y", "C": ""}, m)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"=v"})
	assert.Error(t, err)
}

func TestFill_EmptyValueSkips(t *testing.T) {
	ds := load(t, []string{"s"}, []string{"a"}, []string{""})
	res, err := Fill(ds, MapLookup(map[string]string{"s": ""}))
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, res.Skipped())
	assert.True(t, ds.IsMissing(1, 0))
}

func TestFill_TextMissingMarkerIsInvalid(t *testing.T) {
	ds := load(t, []string{"s"}, []string{"a"}, []string{""})
	res, err := Fill(ds, MapLookup(map[string]string{"s": "NA"}))
	require.NoError(t, err)
	require.Len(t, res.Columns, 1)
	assert.Equal(t, Invalid, res.Columns[0].Outcome)
	assert.Len(t, res.Warnings(), 1)
	assert.True(t, ds.IsMissing(1, 0))
}
