package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nativepc/plugin-packager/internal/archive"
	"github.com/nativepc/plugin-packager/internal/config"
	"github.com/nativepc/plugin-packager/internal/logger"
	"github.com/nativepc/plugin-packager/internal/manifest"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional path to persist packaging settings
	// (defaults to plugin-packager.yaml).
	ConfigPath string
	// PluginName overrides the plugin name from the settings file.
	PluginName string
	// BuildDir overrides the directory holding the compiled plugin DLL.
	BuildDir string
	// OutputPath overrides the full archive output path.
	OutputPath string
	// SkipManifest disables the release manifest sidecar.
	SkipManifest bool
}

// packager produces one plugin archive and its manifest.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type packager struct {
	// cfg holds the packaging settings for this run.
	cfg *config.Config
	// cfgFilename is the path where settings are saved.
	cfgFilename string
	// outputPath is where the archive is written.
	outputPath string
}

// errPackagerRunning indicates that another packager instance holds the output.
var errPackagerRunning = errors.New("another packager instance is running now")

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "plugin-packager")

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	pkg, err := newPackager(ctx, opts, cfg)
	if err != nil {
		return fmt.Errorf("initialize packager: %w", err)
	}

	// Best-effort marker cleanup.
	defer func() {
		_ = removeMarker()
	}()

	if err = pkg.Run(ctx); err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	logger.Info(ctx, "Packager completed successfully")

	return nil
}

// resolveConfig loads settings from disk when present, applies CLI overrides
// and validates the result.
func resolveConfig(opts *Options) (*config.Config, error) {
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigFilename
	}

	cfg := new(config.Config)

	if _, err := os.Stat(cfgPath); err == nil {
		loaded, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			return nil, loadErr
		}

		cfg = loaded
	}

	if opts.PluginName != "" {
		cfg.PluginName = opts.PluginName
	}

	if opts.BuildDir != "" {
		cfg.BuildDir = opts.BuildDir
	}

	if opts.SkipManifest {
		cfg.SkipManifest = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newPackager creates a packager instance, persists the effective settings and
// takes the single-writer marker.
func newPackager(ctx context.Context, opts *Options, cfg *config.Config) (*packager, error) {
	if IsPackagerRunningNow(ctx) {
		return nil, errPackagerRunning
	}

	cfgFilename := opts.ConfigPath
	if cfgFilename == "" {
		cfgFilename = config.DefaultConfigFilename
	}

	if err := config.Save(cfgFilename, cfg); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(cfg.OutputDir, cfg.PluginName+".zip")
	}

	if err := createMarker(); err != nil {
		return nil, fmt.Errorf("create marker: %w", err)
	}

	return &packager{
		cfg:         cfg,
		cfgFilename: cfgFilename,
		outputPath:  outputPath,
	}, nil
}

// Run packages the plugin and writes the release manifest.
func (p *packager) Run(ctx context.Context) error {
	entries := p.entries()

	logger.InfoKV(ctx, "Packaging plugin",
		"plugin", p.cfg.PluginName,
		"output", p.outputPath,
		"entries", len(entries))

	if err := archive.Package(ctx, entries, p.outputPath); err != nil {
		return err
	}

	if !p.cfg.SkipManifest {
		if err := p.writeManifest(ctx, entries); err != nil {
			return err
		}
	}

	p.printNextSteps(ctx, entries)

	return nil
}

// entries builds the (source path, archive path) pairs for the plugin DLL and
// its TOML configuration. Archive paths always use forward slashes.
func (p *packager) entries() []archive.Entry {
	name := p.cfg.PluginName

	return []archive.Entry{
		{
			SourcePath:  filepath.Join(p.cfg.BuildDir, name+".dll"),
			ArchivePath: path.Join(p.cfg.PluginDir, name+".dll"),
		},
		{
			SourcePath:  name + ".toml",
			ArchivePath: path.Join(p.cfg.PluginDir, name+".toml"),
		},
	}
}

// writeManifest records checksums and the packaging actor next to the archive.
func (p *packager) writeManifest(ctx context.Context, entries []archive.Entry) error {
	desc := manifest.New(filepath.Base(p.outputPath))

	for _, entry := range entries {
		if err := desc.AddFile(entry.ArchivePath, entry.SourcePath); err != nil {
			return fmt.Errorf("checksum %s: %w", entry.SourcePath, err)
		}
	}

	actor, err := manifest.DetectActor()
	if err != nil {
		return err
	}

	desc.PackagedBy = actor

	manifestPath := manifest.Filename(p.outputPath)

	logger.InfoKV(ctx, "Saving release manifest", "path", manifestPath)

	return desc.Save(manifestPath)
}

// printNextSteps logs human-readable guidance for the created files.
func (p *packager) printNextSteps(ctx context.Context, entries []archive.Entry) {
	var builder strings.Builder

	builder.WriteString("The archive ")
	builder.WriteString(p.outputPath)
	builder.WriteString(" is ready for distribution.\n")
	builder.WriteString("Extracting it into the game root places:\n")

	for i, entry := range entries {
		if i > 0 {
			builder.WriteString(",\n")
		}

		builder.WriteString(entry.ArchivePath)
	}

	logger.Info(ctx, builder.String())
}
