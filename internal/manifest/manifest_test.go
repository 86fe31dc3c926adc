package manifest

import (
	"crypto/sha512"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileChecksum compares against a directly computed SHA-512 digest.
func TestFileChecksum(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.toml")
	content := []byte("fov = 90\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	checksum, err := FileChecksum(path)
	require.NoError(t, err)

	expected := sha512.Sum512(content)
	require.Equal(t, expected[:], checksum)
}

// TestFileChecksum_Missing surfaces the underlying read error.
func TestFileChecksum_Missing(t *testing.T) {
	t.Parallel()

	_, err := FileChecksum(filepath.Join(t.TempDir(), "missing.dll"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestDescription_SaveLoadRoundtrip persists a manifest and reads it back.
func TestDescription_SaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "plugin.dll")
	require.NoError(t, os.WriteFile(source, []byte("not really a dll"), 0o600))

	desc := New("CustomFOV.zip")
	require.NoError(t, desc.AddFile("nativePC/plugins/CustomFOV.dll", source))

	actor, err := DetectActor()
	require.NoError(t, err)
	require.NotEmpty(t, actor.Hostname)
	require.NotEmpty(t, actor.Username)

	desc.PackagedBy = actor

	path := Filename(filepath.Join(dir, "CustomFOV.zip"))
	require.NoError(t, desc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, desc.VersionNumber, loaded.VersionNumber)
	require.Equal(t, "CustomFOV.zip", loaded.Archive)
	require.Equal(t, actor.Hostname, loaded.PackagedBy.Hostname)

	// Checksum stored as base64 SHA-512 of the source bytes.
	expected := sha512.Sum512([]byte("not really a dll"))
	require.Equal(t,
		base64.StdEncoding.EncodeToString(expected[:]),
		loaded.Files["nativePC/plugins/CustomFOV.dll"])
}
