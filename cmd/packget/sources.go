// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/packget/packget/internal/manifest"
	"github.com/packget/packget/pkg/modpack"
)

// newFTBCommand creates the `packget ftb` command tree.
func newFTBCommand(app *App, flags *rootFlags) *cobra.Command {
	ftbCmd := &cobra.Command{
		Use:   "ftb",
		Short: "Browse and download Feed The Beast packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	ftbCmd.AddCommand(
		newListingCommand(app, flags, "recent", "List the most recently updated packs", "Recent modpacks", manifest.ListingRecent),
		newListingCommand(app, flags, "featured", "List the featured packs", "Featured modpacks", manifest.ListingFeatured),
		newListingCommand(app, flags, "played", "List the most played packs", "Most played modpacks", manifest.ListingPlayed),
		newListingCommand(app, flags, "installed", "List the most installed packs", "Most installed modpacks", manifest.ListingInstalled),
		newSearchCommand(app, flags, modpack.SourceFTB),
		newDownloadCommand(app, flags, modpack.SourceFTB),
	)
	return ftbCmd
}

// newCurseForgeCommand creates the `packget cf` command tree. CurseForge
// packs are only searchable, the API has no listings for them.
func newCurseForgeCommand(app *App, flags *rootFlags) *cobra.Command {
	cfCmd := &cobra.Command{
		Use:     "cf",
		Aliases: []string{"curseforge"},
		Short:   "Search and download CurseForge packs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfCmd.AddCommand(
		newSearchCommand(app, flags, modpack.SourceCurseForge),
		newDownloadCommand(app, flags, modpack.SourceCurseForge),
	)
	return cfCmd
}
