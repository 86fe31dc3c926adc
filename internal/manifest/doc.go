// Package manifest describes a packaged plugin release.
//
// The Description records the build version, the archive name, per-entry
// SHA-512 checksums and the machine/user that produced the archive. It is
// written as YAML next to the archive so consumers can verify what shipped.
package manifest
