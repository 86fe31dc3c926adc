package manifest

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nativepc/plugin-packager/internal/version"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// FilenameSuffix is appended to the archive path to name the manifest.
	FilenameSuffix = ".manifest.yaml"

	// DefaultChecksumFunction is used to calculate entry hashes.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// DefaultFileMode is used when writing the manifest to disk.
	DefaultFileMode os.FileMode = 0o644

	// defaultMapCapacity is the default initial capacity for the entry map.
	defaultMapCapacity = 4
)

var errHashUnavailable = errors.New("hash function unavailable")

// Description contains metadata about a packaged plugin release.
type Description struct {
	// VersionNumber is the packager build version that produced the archive.
	VersionNumber string `yaml:"version"`
	// Archive is the base name of the archive this manifest describes.
	Archive string `yaml:"archive"`
	// Files maps archive-internal paths to their base64-encoded checksums.
	Files map[string]string `yaml:"files"`
	// PackagedBy identifies the machine and user that produced the archive.
	PackagedBy *Actor `yaml:"packaged_by,omitempty"`
}

// Actor identifies who produced an archive, for the audit trail.
type Actor struct {
	// Hostname of the machine the packager ran on.
	Hostname string `yaml:"hostname"`
	// Username of the account the packager ran under.
	Username string `yaml:"username"`
}

// New produces a Description for the named archive, stamped with the current
// build version.
func New(archiveName string) *Description {
	return &Description{
		VersionNumber: version.Short(),
		Archive:       archiveName,
		Files:         make(map[string]string, defaultMapCapacity),
	}
}

// AddFile hashes the file at sourcePath and records the checksum under
// archivePath.
func (d *Description) AddFile(archivePath, sourcePath string) error {
	checksum, err := FileChecksum(sourcePath)
	if err != nil {
		return err
	}

	d.Files[archivePath] = base64.StdEncoding.EncodeToString(checksum)

	return nil
}

// Save writes the manifest as YAML to the provided path.
func (d *Description) Save(path string) error {
	contents, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), contents, DefaultFileMode); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Load reads a manifest back from disk.
func Load(path string) (*Description, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var desc Description
	if err = yaml.Unmarshal(contents, &desc); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &desc, nil
}

// Filename returns the manifest path for the given archive path.
func Filename(archivePath string) string {
	return archivePath + FilenameSuffix
}

// FileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func FileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err = hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
