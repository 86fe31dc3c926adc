// Package packager orchestrates building a distributable plugin archive.
//
// It resolves packaging settings, guards against concurrent packager runs
// via a marker file, assembles the (source path, archive path) entries for
// the plugin DLL and its TOML configuration, writes the zip through the
// archive core and emits a release manifest next to it.
package packager
