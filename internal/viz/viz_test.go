package viz

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func sample(t *testing.T, records ...[]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords("t.csv", records, dataset.DefaultOptions())
	require.NoError(t, err)
	return ds
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"bar": Bar, "LINE": Line, " scatter ": Scatter} {
		k, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, k)
	}
	_, err := ParseKind("pie")
	assert.Error(t, err)
	assert.Equal(t, "scatter", Scatter.String())
}

func TestRender_BarAndLine(t *testing.T) {
	ds := sample(t, []string{"a", "b", "c"}, []string{"1", "", "x"}, []string{"", "", "y"})
	for _, k := range []Kind{Bar, Line} {
		var buf bytes.Buffer
		require.NoError(t, Render(ds, k, &buf, PNG, DefaultOptions()), k.String())
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), k.String())

		buf.Reset()
		require.NoError(t, Render(ds, k, &buf, SVG, Options{Width: 600, Height: 300}), k.String())
		assert.Contains(t, buf.String(), "<svg")
	}
}

func TestRender_NoMissingValues(t *testing.T) {
	ds := sample(t, []string{"a", "b"}, []string{"1", "2"}, []string{"3", "4"})
	var buf bytes.Buffer
	assert.NoError(t, Render(ds, Bar, &buf, PNG, DefaultOptions()))
	buf.Reset()
	assert.NoError(t, Render(ds, Line, &buf, PNG, DefaultOptions()))
}

func TestRender_Scatter(t *testing.T) {
	ds := sample(t, []string{"x", "y", "label"},
		[]string{"1", "2.5", "a"},
		[]string{"2", "", "b"},
		[]string{"3", "4", "c"},
	)
	var buf bytes.Buffer
	require.NoError(t, Render(ds, Scatter, &buf, PNG, DefaultOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	text := sample(t, []string{"x", "label"}, []string{"1", "a"}, []string{"2", "b"})
	err := Render(text, Scatter, &buf, PNG, DefaultOptions())
	assert.True(t, errors.Is(err, ErrScatterColumns))

	one := sample(t, []string{"x"}, []string{"1"})
	assert.ErrorIs(t, Render(one, Scatter, &buf, PNG, DefaultOptions()), ErrScatterColumns)
}

func TestRenderFile(t *testing.T) {
	ds := sample(t, []string{"a", "b"}, []string{"1", ""}, []string{"", "z"})
	dir := t.TempDir()

	p := filepath.Join(dir, "chart.svg")
	require.NoError(t, RenderFile(ds, Bar, p, DefaultOptions()))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")

	bad := filepath.Join(dir, "chart.gif")
	assert.Error(t, RenderFile(ds, Bar, bad, DefaultOptions()))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err))
}

func TestRender_NoColumns(t *testing.T) {
	ds, err := dataset.FromRecords("e", nil, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.ErrorIs(t, Render(ds, Bar, &bytes.Buffer{}, PNG, DefaultOptions()), ErrNoColumns)
}
