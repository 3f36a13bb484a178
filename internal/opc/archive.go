// SPDX-License-Identifier: MPL-2.0

package opc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"deckscope/pkg/partpath"

	"github.com/klauspost/compress/zip"
)

// ErrArchive is the sentinel error wrapped by ArchiveError.
var ErrArchive = errors.New("archive error")

// ArchiveError is the single fatal error tier of the analyzer: the ZIP
// container itself could not be opened or one of its entries could not be
// read. Every problem inside readable content is recorded as a defect
// instead.
type ArchiveError struct {
	// Path is the filesystem path of the container.
	Path string
	// Entry is the archive entry being read when the failure happened,
	// empty when the container itself failed to open.
	Entry string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("failed to read package entry %q in %s: %v", e.Entry, e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to open package archive %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause chained with ErrArchive.
func (e *ArchiveError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrArchive, so callers can classify the
// fatal tier with errors.Is without naming the struct type.
func (e *ArchiveError) Is(target error) bool { return target == ErrArchive }

// partEntry is one loaded archive entry, in archive order.
type partEntry struct {
	name partpath.PartPath
	data []byte
}

// readArchive opens the ZIP container and loads every file entry's bytes.
// Directory entries are skipped; no entry-count or size limits are imposed
// (archive-bomb hardening is the surrounding tool's concern).
func readArchive(path string) ([]partEntry, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, &ArchiveError{Path: path, Cause: err}
	}
	defer reader.Close()

	entries := make([]partEntry, 0, len(reader.File))
	for _, f := range reader.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &ArchiveError{Path: path, Entry: f.Name, Cause: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &ArchiveError{Path: path, Entry: f.Name, Cause: err}
		}
		entries = append(entries, partEntry{name: partpath.PartPath(f.Name), data: data})
	}
	return entries, nil
}
