// SPDX-License-Identifier: MPL-2.0

package overrides

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"

	"github.com/packget/packget/pkg/modpack"
)

// prefix is the archive directory whose content belongs at the pack root.
const prefix = "overrides"

type (
	// Extractor unpacks override archives.
	Extractor struct {
		logger *log.Logger
	}

	// Option configures an Extractor.
	Option func(*Extractor)

	// Stats summarizes a finished extraction.
	Stats struct {
		Files   int
		Dirs    int
		Skipped int
	}

	componentKind int
)

const (
	componentSkip componentKind = iota
	componentCurDir
	componentNormal
)

// WithLogger sets the logger used by the extractor.
func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract unpacks archivePath into <destinationRoot>/<packID> with a default
// Extractor.
func Extract(archivePath, destinationRoot, packID string) error {
	_, err := NewExtractor().Extract(archivePath, destinationRoot, packID)
	return err
}

// Extract unpacks archivePath into <destinationRoot>/<packID>, processing
// entries in archive order.
//
// An entry with an unsafe name fails the whole extraction with a
// KindInvalidArchiveEntry error before anything is written for it. Entries
// processed earlier stay on disk. File entries whose target already exists as
// a directory are skipped.
func (e *Extractor) Extract(archivePath, destinationRoot, packID string) (stats Stats, err error) {
	if err := modpack.ValidatePackID(packID); err != nil {
		return stats, modpack.NewError(modpack.KindExtraction, "extract overrides", archivePath, err)
	}
	packageRoot := modpack.PackageRoot(destinationRoot, packID)

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return stats, modpack.NewError(modpack.KindExtraction, "open archive", archivePath, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = modpack.NewError(modpack.KindExtraction, "close archive", archivePath, closeErr)
		}
	}()

	for _, f := range zr.File {
		target, resolveErr := ResolveEntryPath(packageRoot, f.Name)
		if resolveErr != nil {
			return stats, resolveErr
		}

		if isDirEntry(f) {
			if mkErr := os.MkdirAll(target, 0o755); mkErr != nil {
				return stats, modpack.NewError(modpack.KindExtraction, "create directory", target, mkErr)
			}
			stats.Dirs++
			continue
		}

		if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
			e.logger.Debug("skipping entry shadowed by a directory", "entry", f.Name, "path", target)
			stats.Skipped++
			continue
		}

		e.logger.Info("extracting override", "path", target)
		if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
			return stats, modpack.NewError(modpack.KindExtraction, "create directory", filepath.Dir(target), mkErr)
		}
		if extractErr := extractFile(f, target); extractErr != nil {
			return stats, modpack.NewError(modpack.KindExtraction, "extract", f.Name, extractErr)
		}
		stats.Files++
	}

	e.logger.Debug("overrides extracted", "files", stats.Files, "dirs", stats.Dirs, "skipped", stats.Skipped)
	return stats, nil
}

// ResolveEntryPath maps the stored name of an archive entry to its location
// below packageRoot.
//
// Components are split on "/". Plain names and "." are accepted and empty
// components are ignored. A leading "/", a drive prefix, "..", or a component
// containing a backslash or NUL is rejected. If the first component that is
// not "." is "overrides", that single component is dropped.
func ResolveEntryPath(packageRoot, name string) (string, error) {
	if strings.HasPrefix(name, "/") {
		return "", invalidEntry(name, "/")
	}

	parts := make([]string, 0, strings.Count(name, "/")+1)
	for i, c := range strings.Split(name, "/") {
		kind, ok := classify(c, i == 0)
		if !ok {
			return "", invalidEntry(name, c)
		}
		if kind != componentSkip {
			parts = append(parts, c)
		}
	}

	for i, c := range parts {
		if c == "." {
			continue
		}
		if c == prefix {
			parts = append(parts[:i], parts[i+1:]...)
		}
		break
	}

	return filepath.Join(append([]string{packageRoot}, parts...)...), nil
}

func classify(c string, first bool) (componentKind, bool) {
	switch {
	case c == "":
		return componentSkip, true
	case c == ".":
		return componentCurDir, true
	case c == "..":
		return 0, false
	case strings.ContainsAny(c, "\\\x00"):
		return 0, false
	case first && hasDrivePrefix(c):
		return 0, false
	}
	return componentNormal, true
}

// hasDrivePrefix reports whether c starts like a Windows volume, e.g. "C:".
func hasDrivePrefix(c string) bool {
	if len(c) < 2 || c[1] != ':' {
		return false
	}
	l := c[0] | 0x20
	return l >= 'a' && l <= 'z'
}

func invalidEntry(name, component string) error {
	return modpack.NewError(modpack.KindInvalidArchiveEntry, "extract", name,
		&modpack.InvalidEntryError{Entry: name, Component: component})
}

func isDirEntry(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
}

func extractFile(f *zip.File, target string) (err error) {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: archives come from the pack's own manifest, which is hash-verified.
	if _, err = io.Copy(out, rc); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
