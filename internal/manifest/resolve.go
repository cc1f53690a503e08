// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/packget/packget/pkg/modpack"
)

var (
	// ErrNoVersions is returned when a pack has no published versions.
	ErrNoVersions = errors.New("no versions available")

	// ErrInvalidVersion is returned for version ids that are neither numeric
	// nor modpack.LatestVersion.
	ErrInvalidVersion = errors.New("invalid version")
)

type (
	// packWire is the JSON wire format of <source>/<id>.
	packWire struct {
		apiStatus
		ID          int64         `json:"id"`
		Name        string        `json:"name"`
		Synopsis    string        `json:"synopsis"`
		Description string        `json:"description"`
		Authors     []authorWire  `json:"authors"`
		Versions    []versionWire `json:"versions"`
		Installs    int64         `json:"installs"`
		Plays       int64         `json:"plays"`
	}

	authorWire struct {
		Name string `json:"name"`
	}

	versionWire struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}

	// versionManifestWire is the JSON wire format of <source>/<id>/<version>.
	versionManifestWire struct {
		apiStatus
		ID     int64                    `json:"id"`
		Name   string                   `json:"name"`
		Parent int64                    `json:"parent"`
		Files  []modpack.FileDescriptor `json:"files"`
	}
)

// LatestVersion returns the id of the newest version of a pack. FTB lists
// versions oldest-first and CurseForge newest-first, so the pick depends on
// the source.
func (c *Client) LatestVersion(ctx context.Context, source modpack.Source, packID string) (string, error) {
	pack, err := c.fetchPack(ctx, source, packID)
	if err != nil {
		return "", err
	}
	if len(pack.Versions) == 0 {
		return "", modpack.NewError(modpack.KindDecode, "select latest version", packID, ErrNoVersions)
	}

	newest := pack.Versions[len(pack.Versions)-1]
	if source.LatestFirst() {
		newest = pack.Versions[0]
	}
	return strconv.FormatInt(newest.ID, 10), nil
}

// Resolve fetches and validates the manifest of one pack version. A version
// of modpack.LatestVersion is resolved with LatestVersion first.
func (c *Client) Resolve(ctx context.Context, source modpack.Source, packID, version string) (*modpack.Manifest, error) {
	if err := modpack.ValidatePackID(packID); err != nil {
		return nil, err
	}

	if version == modpack.LatestVersion {
		latest, err := c.LatestVersion(ctx, source, packID)
		if err != nil {
			return nil, fmt.Errorf("resolving latest version: %w", err)
		}
		version = latest
	} else if _, err := strconv.ParseUint(version, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: %q (expected a numeric id or %q)", ErrInvalidVersion, version, modpack.LatestVersion)
	}

	var wire versionManifestWire
	if err := c.getJSON(ctx, source.BasePath()+packID+"/"+version, &wire); err != nil {
		return nil, err
	}

	for i := range wire.Files {
		if err := wire.Files[i].Validate(); err != nil {
			return nil, fmt.Errorf("manifest %s/%s file %d: %w", packID, version, i, err)
		}
	}

	return &modpack.Manifest{
		Source:  source,
		PackID:  packID,
		Version: version,
		Name:    wire.Name,
		Files:   wire.Files,
	}, nil
}

func (c *Client) fetchPack(ctx context.Context, source modpack.Source, packID string) (*packWire, error) {
	if err := modpack.ValidatePackID(packID); err != nil {
		return nil, err
	}
	var wire packWire
	if err := c.getJSON(ctx, source.BasePath()+packID, &wire); err != nil {
		return nil, err
	}
	return &wire, nil
}
