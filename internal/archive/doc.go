// Package archive implements the packaging core: copying a fixed list of
// local files into a single zip archive under caller-chosen internal paths.
//
// Package writes entries in input order, normalizes entry metadata so that
// identical inputs produce byte-identical archives, and stages the output
// through a temporary file that is renamed into place on success.
package archive
