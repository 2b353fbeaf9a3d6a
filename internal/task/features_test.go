package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFeatureDefinitions(t *testing.T) {
	content := RenderFeatureDefinitions([]string{"GPS_TYPE", "!COMPASS_ENABLE", "  ", ""})

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines, "undef GPS_TYPE")
	assert.Contains(t, lines, "define GPS_TYPE 1")
	assert.Contains(t, lines, "undef COMPASS_ENABLE")
	assert.Contains(t, lines, "define COMPASS_ENABLE 0")
}

func TestRenderFeatureDefinitionsEmpty(t *testing.T) {
	assert.Empty(t, RenderFeatureDefinitions(nil))
	assert.Empty(t, RenderFeatureDefinitions([]string{"", "  ", "!"}))
}

func TestWriteFeatureDefinitions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build", "CubeOrange")

	path, err := WriteFeatureDefinitions(dir, []string{"GPS_TYPE"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FeatureFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "undef GPS_TYPE\ndefine GPS_TYPE 1\n", string(data))
}

func TestWriteFeatureDefinitionsSkipsEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build", "sitl")

	path, err := WriteFeatureDefinitions(dir, []string{"", "  "})
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = os.Stat(filepath.Join(dir, FeatureFileName))
	assert.True(t, os.IsNotExist(err))
}
