// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// SourceFTB is the Feed The Beast pack catalog.
	SourceFTB Source = "ftb"
	// SourceCurseForge is the CurseForge pack catalog mirrored by modpacks.ch.
	SourceCurseForge Source = "curseforge"

	// LatestVersion is the version sentinel that asks the resolver to pick the
	// newest published version.
	LatestVersion = "latest"

	// OverridesArchive is the file name of the overrides archive that CurseForge
	// manifests place at the package root.
	OverridesArchive = "overrides.zip"
)

type (
	// Source identifies which catalog a pack comes from. The two catalogs
	// differ in URL layout, version ordering, and whether an overrides archive
	// has to be unpacked after download.
	Source string

	// FileDescriptor is one file entry of a manifest.
	FileDescriptor struct {
		ID         int64  `json:"id,omitempty"`
		URL        string `json:"url"`
		Name       string `json:"name"`
		Path       string `json:"path"` // Directory relative to the package root
		SHA1       string `json:"sha1"` // Expected lowercase hex digest; empty skips verification
		Size       int64  `json:"size,omitempty"`
		ClientOnly bool   `json:"clientonly,omitempty"`
		ServerOnly bool   `json:"serveronly,omitempty"`
	}

	// Manifest is the resolved file list of one pack version.
	Manifest struct {
		Source  Source
		PackID  string
		Version string
		Name    string
		Files   []FileDescriptor
	}
)

// ParseSource maps a user-supplied catalog name to a Source. "cf" is accepted
// as an alias for CurseForge.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SourceFTB):
		return SourceFTB, nil
	case string(SourceCurseForge), "cf":
		return SourceCurseForge, nil
	}
	return "", fmt.Errorf("unknown pack source %q (expected ftb or curseforge)", s)
}

// BasePath returns the API path segment of the source, including the
// trailing slash.
func (s Source) BasePath() string {
	if s == SourceCurseForge {
		return "curseforge/"
	}
	return "modpack/"
}

// DisplayName returns the human-readable catalog name.
func (s Source) DisplayName() string {
	if s == SourceCurseForge {
		return "CurseForge"
	}
	return "FTB"
}

// HasOverrides reports whether packs from this source ship an overrides
// archive that must be extracted after download.
func (s Source) HasOverrides() bool { return s == SourceCurseForge }

// LatestFirst reports whether the source lists versions newest-first.
// FTB lists them oldest-first.
func (s Source) LatestFirst() bool { return s == SourceCurseForge }

// String implements fmt.Stringer.
func (s Source) String() string { return string(s) }

// Validate checks that the descriptor can be fetched and that its target stays
// inside the package root. A violation is reported as a decode error because
// it can only come from a malformed manifest.
func (d FileDescriptor) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return NewError(KindDecode, "validate descriptor", d.Name, fmt.Errorf("empty url"))
	}
	if strings.TrimSpace(d.Name) == "" || strings.ContainsAny(d.Name, `/\`) {
		return NewError(KindDecode, "validate descriptor", d.URL, fmt.Errorf("invalid file name %q", d.Name))
	}
	if !filepath.IsLocal(d.RelativeFile()) {
		return NewError(KindDecode, "validate descriptor", d.Name,
			fmt.Errorf("path %q escapes the package root", d.Path))
	}
	return nil
}

// RelativeFile returns the descriptor's target relative to the package root.
func (d FileDescriptor) RelativeFile() string {
	return filepath.Join(filepath.FromSlash(d.Path), d.Name)
}

// Root returns the package root for this manifest under destinationRoot.
func (m *Manifest) Root(destinationRoot string) string {
	return PackageRoot(destinationRoot, m.PackID)
}

// PackageRoot returns <destinationRoot>/<packID>.
func PackageRoot(destinationRoot, packID string) string {
	return filepath.Join(destinationRoot, packID)
}
