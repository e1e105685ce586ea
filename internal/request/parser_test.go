package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	task, err := Parse("assets/icon.svg;out/icon.png;64")
	require.NoError(t, err)

	assert.Equal(t, "assets/icon.svg", task.Input)
	assert.Equal(t, "out/icon.png", task.Output)
	assert.Equal(t, 64, task.Size)
	assert.NotEqual(t, task.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestParseExtraFieldsIgnored(t *testing.T) {
	task, err := Parse("a.svg;b.png;32;ignored;also ignored")
	require.NoError(t, err)

	assert.Equal(t, "a.svg", task.Input)
	assert.Equal(t, "b.png", task.Output)
	assert.Equal(t, 32, task.Size)
}

func TestParseNonNumericSize(t *testing.T) {
	for _, size := range []string{"", "abc", "12px", "-8"} {
		task, err := Parse("a.svg;b.png;" + size)
		require.NoError(t, err, "size %q", size)
		assert.Equal(t, 0, task.Size, "size %q", size)
	}
}

func TestParseTooFewFields(t *testing.T) {
	for _, line := range []string{"", "a.svg", "a.svg;b.png"} {
		_, err := Parse(line)
		assert.ErrorIs(t, err, ErrBadFormat, "line %q", line)
	}
}

func TestParseFieldsNotTrimmed(t *testing.T) {
	task, err := Parse(" a.svg ; b.png ;16")
	require.NoError(t, err)

	assert.Equal(t, " a.svg ", task.Input)
	assert.Equal(t, " b.png ", task.Output)
	assert.Equal(t, 16, task.Size)
}

func TestParseStem(t *testing.T) {
	task, err := Parse("assets/deep/dir/icon.svg;out/icon.png;64")
	require.NoError(t, err)

	assert.Equal(t, "icon", task.Stem())
	assert.Equal(t, "out", task.OutputDir())
}
