package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults and path validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing plugin name.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Absolute plugin directory.
	cfg = &Config{
		PluginName: "CustomFOV",
		PluginDir:  "/nativePC/plugins",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Directory escaping the archive root.
	cfg = &Config{
		PluginName: "CustomFOV",
		PluginDir:  "../plugins",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay with defaults filled in.
	cfg = &Config{
		PluginName: "CustomFOV",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultBuildDir, cfg.BuildDir)
	require.Equal(t, DefaultPluginDir, cfg.PluginDir)
	require.Equal(t, DefaultOutputDir, cfg.OutputDir)

	// Backslashes are normalized to forward slashes.
	cfg = &Config{
		PluginName: "CustomFOV",
		PluginDir:  `nativePC\plugins`,
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, "nativePC/plugins", cfg.PluginDir)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		PluginName: "CustomFOV",
		BuildDir:   "build/Release",
		OutputDir:  "dist",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.PluginName, loaded.PluginName)
	require.Equal(t, cfg.BuildDir, loaded.BuildDir)
	require.Equal(t, cfg.OutputDir, loaded.OutputDir)
	require.Equal(t, DefaultPluginDir, loaded.PluginDir)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
