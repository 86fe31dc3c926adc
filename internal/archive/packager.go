package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Entry describes one file to copy into the archive.
type Entry struct {
	// SourcePath is the filesystem path of the file to read.
	SourcePath string
	// ArchivePath names the entry inside the archive.
	// It uses forward slashes regardless of platform.
	ArchivePath string
}

var (
	// ErrSourceNotFound is returned when a source path does not refer to an
	// existing, readable regular file.
	ErrSourceNotFound = errors.New("source file not found or not readable")
	// ErrDuplicateArchivePath is returned when two entries share an archive path.
	ErrDuplicateArchivePath = errors.New("duplicate archive path")
	// ErrOutputPathUnwritable is returned when the archive cannot be created
	// or renamed into place at the output path.
	ErrOutputPathUnwritable = errors.New("output path is not writable")
)

// entryFileMode is the mode recorded for every archive entry. Fixing it keeps
// repeated runs byte-identical regardless of source file permissions.
const entryFileMode os.FileMode = 0o644

// Package writes the provided entries into a zip archive at outputPath.
//
// Entries are written in input order with content copied byte-for-byte.
// The archive is staged in a temporary file next to outputPath and renamed
// into place once fully written, so a failed run never leaves a partial
// archive at the destination. The parent directory of outputPath must exist.
//
// An empty entry list is legal and produces a valid empty archive.
func Package(ctx context.Context, entries []Entry, outputPath string) error {
	if err := validateEntries(entries); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, ErrOutputPathUnwritable)
	}

	tmpName := tmp.Name()

	if err = writeEntries(ctx, tmp, entries); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return err
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err = os.Rename(tmpName, outputPath); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("rename to %s: %w", outputPath, ErrOutputPathUnwritable)
	}

	return nil
}

// validateEntries rejects colliding archive paths and missing sources before
// anything is written.
func validateEntries(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if _, ok := seen[entry.ArchivePath]; ok {
			return fmt.Errorf("%s: %w", entry.ArchivePath, ErrDuplicateArchivePath)
		}

		seen[entry.ArchivePath] = struct{}{}
	}

	for _, entry := range entries {
		info, err := os.Stat(entry.SourcePath)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.SourcePath, ErrSourceNotFound)
		}

		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s: %w", entry.SourcePath, ErrSourceNotFound)
		}
	}

	return nil
}

// writeEntries streams every entry into the zip container in input order.
func writeEntries(ctx context.Context, w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := writeEntry(zw, entry); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}

	return nil
}

// writeEntry copies one source file into the archive under its archive path.
// The header carries a zero modification time and a fixed mode so the output
// does not depend on when or where the sources were built.
func writeEntry(zw *zip.Writer, entry Entry) error {
	source, err := os.Open(entry.SourcePath)
	if err != nil {
		return fmt.Errorf("%s: %w", entry.SourcePath, ErrSourceNotFound)
	}

	// Best-effort cleanup.
	defer func() {
		_ = source.Close()
	}()

	header := &zip.FileHeader{
		Name:   entry.ArchivePath,
		Method: zip.Deflate,
	}
	header.SetMode(entryFileMode)

	target, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", entry.ArchivePath, err)
	}

	if _, err = io.Copy(target, source); err != nil {
		return fmt.Errorf("copy %s: %w", entry.SourcePath, err)
	}

	return nil
}
