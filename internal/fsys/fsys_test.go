package fsys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOS_ExistsAndStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 4000), 0600))

	fs := OS{}
	assert.True(t, fs.Exists(path))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), info.Length)

	missing := filepath.Join(dir, "missing.bin")
	assert.False(t, fs.Exists(missing))
	_, err = fs.Stat(missing)
	assert.Error(t, err)
}

func TestOS_StatDirectory(t *testing.T) {
	_, err := OS{}.Stat(t.TempDir())
	assert.Error(t, err)
}

func TestDriveKindString(t *testing.T) {
	assert.Equal(t, "fixed", DriveFixed.String())
	assert.Equal(t, "removable", DriveRemovable.String())
	assert.Equal(t, "network", DriveNetwork.String())
	assert.Equal(t, "unknown", DriveUnknown.String())
}
