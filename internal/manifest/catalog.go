// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"net/url"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/packget/packget/pkg/modpack"
)

const (
	// ListingRecent lists recently updated FTB packs.
	ListingRecent Listing = "updated"
	// ListingFeatured lists featured FTB packs.
	ListingFeatured Listing = "featured"
	// ListingPlayed lists the most played FTB packs.
	ListingPlayed Listing = "popular/plays"
	// ListingInstalled lists the most installed FTB packs.
	ListingInstalled Listing = "popular/installs"

	// DefaultListingLimit matches the page size the CLI shows.
	DefaultListingLimit = 10
	// DefaultSearchLimit matches the page size the CLI shows for searches.
	DefaultSearchLimit = 5

	// infoVersions is how many versions PackInfo keeps.
	infoVersions = 3
)

type (
	// Listing is one of the FTB catalog listings.
	Listing string

	// PackInfo summarizes a pack for display.
	PackInfo struct {
		ID          string
		Source      modpack.Source
		Name        string
		Synopsis    string
		Description string
		Authors     []string
		// Versions holds the newest versions, newest first, regardless of the
		// ordering the source uses.
		Versions []VersionInfo
	}

	// VersionInfo is one published version of a pack.
	VersionInfo struct {
		ID   string
		Name string
		Type string
	}

	// packListWire is the JSON wire format of listing and search responses.
	packListWire struct {
		apiStatus
		Packs      []int64 `json:"packs"`
		CurseForge []int64 `json:"curseforge"`
		Total      int     `json:"total"`
	}
)

// PackInfo fetches the display summary of a pack.
func (c *Client) PackInfo(ctx context.Context, source modpack.Source, packID string) (*PackInfo, error) {
	wire, err := c.fetchPack(ctx, source, packID)
	if err != nil {
		return nil, err
	}

	info := &PackInfo{
		ID:          packID,
		Source:      source,
		Name:        wire.Name,
		Synopsis:    wire.Synopsis,
		Description: wire.Description,
	}
	for _, a := range wire.Authors {
		info.Authors = append(info.Authors, a.Name)
	}

	versions := slices.Clone(wire.Versions)
	if !source.LatestFirst() {
		slices.Reverse(versions)
	}
	for _, v := range versions[:min(len(versions), infoVersions)] {
		info.Versions = append(info.Versions, VersionInfo{
			ID:   strconv.FormatInt(v.ID, 10),
			Name: v.Name,
			Type: v.Type,
		})
	}

	return info, nil
}

// List returns the pack ids of an FTB listing.
func (c *Client) List(ctx context.Context, listing Listing, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultListingLimit
	}
	var wire packListWire
	if err := c.getJSON(ctx, modpack.SourceFTB.BasePath()+string(listing)+"/"+strconv.Itoa(limit), &wire); err != nil {
		return nil, err
	}
	return formatIDs(wire.Packs), nil
}

// Search returns the ids of packs matching term. Both catalogs share one
// search endpoint; FTB results are read from "packs" and CurseForge results
// from "curseforge".
func (c *Client) Search(ctx context.Context, source modpack.Source, term string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	path := modpack.SourceFTB.BasePath() + "search/" + strconv.Itoa(limit) + "?term=" + url.QueryEscape(term)

	var wire packListWire
	if err := c.getJSON(ctx, path, &wire); err != nil {
		return nil, err
	}
	if source == modpack.SourceCurseForge {
		return formatIDs(wire.CurseForge), nil
	}
	return formatIDs(wire.Packs), nil
}

// PackInfos fetches the info of every id with at most concurrency requests in
// flight. Results keep the order of ids; the first failure cancels the rest.
func (c *Client) PackInfos(ctx context.Context, source modpack.Source, ids []string, concurrency int) ([]*PackInfo, error) {
	infos := make([]*PackInfo, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, id := range ids {
		g.Go(func() error {
			info, err := c.PackInfo(ctx, source, id)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return infos, nil
}

func formatIDs(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}
