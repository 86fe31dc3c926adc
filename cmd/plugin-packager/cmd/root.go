package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nativepc/plugin-packager/internal/config"
	"github.com/nativepc/plugin-packager/internal/logger"
	"github.com/nativepc/plugin-packager/internal/service/packager"
	"github.com/nativepc/plugin-packager/internal/version"
)

var (
	// configPath to the packaging settings YAML file.
	configPath string
	// buildDir overrides the directory holding the compiled plugin DLL.
	buildDir string
	// outputPath overrides the full archive output path.
	outputPath string
	// skipManifest disables the release manifest sidecar.
	skipManifest bool
	// logLevel sets the logging verbosity.
	logLevel string

	// rootCmd represents the base command for packaging a plugin archive.
	rootCmd = &cobra.Command{
		Use:   "plugin-packager [plugin-name]",
		Short: "Package a plugin DLL and its TOML configuration into a zip archive.",
		Long: `Packages a compiled plugin and its configuration into a distributable zip.

The plugin DLL is taken from the build directory and the TOML configuration
from the working directory. Both are placed under the nativePC/plugins
directory inside the archive, so extracting the zip into the game root
installs the plugin. Settings are persisted to a YAML file for repeat runs;
the plugin name argument overrides the persisted one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Use plugin name argument if provided, otherwise rely on config.
			var pluginName string
			if len(args) > 0 {
				pluginName = args[0]
			}

			options := &packager.Options{
				ConfigPath:   configPath,
				PluginName:   pluginName,
				BuildDir:     buildDir,
				OutputPath:   outputPath,
				SkipManifest: skipManifest,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the plugin-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&buildDir, "build-dir", "b", "", "directory holding the compiled plugin DLL")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "archive output path (defaults to <output_dir>/<plugin>.zip)")
	rootCmd.Flags().BoolVar(&skipManifest, "no-manifest", false, "do not write the release manifest next to the archive")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
}
