// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/packget/packget/internal/manifest"
	"github.com/packget/packget/pkg/modpack"
)

// listingParams describes one listing or search. An empty listing means a
// search for term.
type listingParams struct {
	session *session
	source  modpack.Source
	title   string
	listing manifest.Listing
	term    string
	limit   int
	stdout  io.Writer
}

func newListingCommand(app *App, flags *rootFlags, use, short, title string, listing manifest.Listing) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListingCommand(cmd, app, flags, listingParams{
				source:  modpack.SourceFTB,
				title:   title,
				listing: listing,
				limit:   manifest.DefaultListingLimit,
			})
		},
	}
}

func newSearchCommand(app *App, flags *rootFlags, source modpack.Source) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "search <term>",
		Short:   "Search " + source.DisplayName() + " packs",
		Example: "  packget " + sourceCommandName(source) + " search skyblock",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListingCommand(cmd, app, flags, listingParams{
				source: source,
				title:  "Search results",
				term:   args[0],
				limit:  limit,
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", manifest.DefaultSearchLimit, "maximum number of results")
	return cmd
}

func runListingCommand(cmd *cobra.Command, app *App, flags *rootFlags, p listingParams) error {
	s, err := app.newSession(cmd, flags)
	if err != nil {
		return reportError(cmd, app.stderr, err, flags.verbose, "auto")
	}
	p.session = s
	p.stdout = app.stdout

	if err := runListing(cmd.Context(), p); err != nil {
		resource := p.source.String()
		if p.term != "" {
			resource += " search " + p.term
		}
		return reportError(cmd, app.stderr, withGuidance(err, "list packs", resource),
			s.verbose, s.cfg.UI.ColorScheme.GlamourStyle())
	}
	return nil
}

// runListing fetches the pack ids of a listing or search, looks their
// summaries up with at most session.threads requests in flight, and prints
// them in API order.
func runListing(ctx context.Context, p listingParams) error {
	s := p.session

	var (
		ids []string
		err error
	)
	if p.listing != "" {
		ids, err = s.client.List(ctx, p.listing, p.limit)
	} else {
		ids, err = s.client.Search(ctx, p.source, p.term, p.limit)
	}
	if err != nil {
		return err
	}
	s.logger.Debug("fetched pack ids", "source", p.source, "count", len(ids))

	infos, err := s.client.PackInfos(ctx, p.source, ids, s.threads)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.stdout, TitleStyle.Render(p.title+":"))
	if len(infos) == 0 {
		fmt.Fprintln(p.stdout, SubtitleStyle.Render("  (no packs found)"))
		return nil
	}
	fmt.Fprintln(p.stdout)

	style := ""
	if s.verbose {
		style = s.cfg.UI.ColorScheme.GlamourStyle()
	}
	for _, info := range infos {
		fmt.Fprintln(p.stdout, renderPackInfo(info, style))
	}
	return nil
}

// renderPackInfo formats one pack. With a glamour style the full markdown
// description is rendered, otherwise only the synopsis is shown.
func renderPackInfo(info *manifest.PackInfo, glamourStyle string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s\n", CmdStyle.Render(info.ID), TitleStyle.Render(info.Name))
	if len(info.Authors) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", SubtitleStyle.Render("Authors:"), strings.Join(info.Authors, ", "))
	}

	summary := strings.TrimSpace(info.Synopsis)
	if summary == "" {
		summary, _, _ = strings.Cut(strings.TrimSpace(info.Description), "\n")
	}
	if glamourStyle != "" && strings.TrimSpace(info.Description) != "" {
		if rendered, err := glamour.Render(info.Description, glamourStyle); err == nil {
			summary = strings.TrimSpace(rendered)
		}
	}
	if summary != "" {
		sb.WriteString(summary)
		sb.WriteString("\n")
	}

	if len(info.Versions) > 0 {
		sb.WriteString(SubtitleStyle.Render("Versions:"))
		for _, v := range info.Versions {
			fmt.Fprintf(&sb, "\n  %s %s", CmdStyle.Render(v.ID), v.Name)
			if v.Type != "" {
				sb.WriteString(" " + versionTypeStyle.Render(v.Type))
			}
		}
	}

	return packCardStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
