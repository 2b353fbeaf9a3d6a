package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helperPath(workspace string) string {
	return filepath.Join(workspace, filepath.FromSlash(HelperScriptRelPath))
}

func TestEnsureHelperScriptInstalls(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, EnsureHelperScript(ws))

	data, err := os.ReadFile(helperPath(ws))
	require.NoError(t, err)
	assert.Equal(t, helperScript, string(data))

	info, err := os.Stat(helperPath(ws))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0100, "helper script must be executable")
}

func TestEnsureHelperScriptIdempotent(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, EnsureHelperScript(ws))
	require.NoError(t, EnsureHelperScript(ws))

	_, err := os.Stat(helperPath(ws) + ".bak")
	assert.True(t, os.IsNotExist(err), "identical copies must not be backed up")
}

func TestEnsureHelperScriptBacksUpStaleCopy(t *testing.T) {
	ws := t.TempDir()
	path := helperPath(ws)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho old\n"), 0755))

	require.NoError(t, EnsureHelperScript(ws))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho old\n", string(backup))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, helperScript, string(data))
}
