package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds packaging parameters for one plugin.
type Config struct {
	// PluginName is the base name of the plugin; it names the DLL, the TOML
	// configuration file and the resulting archive.
	PluginName string `yaml:"plugin_name"`
	// BuildDir is the directory where the compiled plugin DLL is produced.
	BuildDir string `yaml:"build_dir"`
	// PluginDir is the archive-internal directory entries are placed under.
	// It uses forward slashes regardless of platform.
	PluginDir string `yaml:"plugin_dir"`
	// OutputDir is the directory the archive is written to.
	OutputDir string `yaml:"output_dir"`
	// SkipManifest disables writing the release manifest next to the archive.
	SkipManifest bool `yaml:"skip_manifest"`
}

const (
	// DefaultConfigFilename is the default filename for packaging settings.
	DefaultConfigFilename = "plugin-packager.yaml"

	// DefaultBuildDir is where the plugin build drops the compiled DLL.
	DefaultBuildDir = "x64/Release"

	// DefaultPluginDir is the archive-internal plugin directory convention.
	DefaultPluginDir = "nativePC/plugins"

	// DefaultOutputDir is where the resulting archive is written.
	DefaultOutputDir = "x64"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errPluginNameRequired is returned when the plugin name is missing.
	errPluginNameRequired = errors.New("plugin name must be provided")
	// errPluginDirInvalid is returned when the archive-internal directory
	// is absolute or escapes the archive root.
	errPluginDirInvalid = errors.New("plugin directory must be a relative path inside the archive")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.PluginName) == "" {
		return errPluginNameRequired
	}

	// Set default directories if not specified.
	if cfg.BuildDir == "" {
		cfg.BuildDir = DefaultBuildDir
	}

	if cfg.PluginDir == "" {
		cfg.PluginDir = DefaultPluginDir
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	// Archive-internal paths always use forward slashes.
	pluginDir := path.Clean(strings.ReplaceAll(cfg.PluginDir, "\\", "/"))
	if path.IsAbs(pluginDir) || pluginDir == ".." || strings.HasPrefix(pluginDir, "../") {
		return fmt.Errorf("%w: %s", errPluginDirInvalid, cfg.PluginDir)
	}

	cfg.PluginDir = pluginDir

	return nil
}
