// Package config defines packaging settings used by the plugin-packager
// binary and provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the plugin name, the build output directory, the
// archive-internal plugin directory and the archive output directory.
package config
