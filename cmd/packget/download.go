// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/packget/packget/internal/acquire"
	"github.com/packget/packget/internal/installer"
	"github.com/packget/packget/pkg/modpack"
)

// downloadParams holds everything runDownload needs. Keeping it free of
// Cobra state lets tests call runDownload directly.
type downloadParams struct {
	session    *session
	httpClient *http.Client
	source     modpack.Source
	packID     string
	version    string
	stdout     io.Writer
	stderr     io.Writer
}

func newDownloadCommand(app *App, flags *rootFlags, source modpack.Source) *cobra.Command {
	return &cobra.Command{
		Use:   "download <pack id> <version id|latest>",
		Short: "Download a version of a " + source.DisplayName() + " pack",
		Long: `Download every file of a pack version into <dest>/<pack id>.

Files are verified against their published SHA-1 digests. Existing files are
overwritten, so an interrupted download can simply be run again.`,
		Example: "  packget " + sourceCommandName(source) + " download 79 latest",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd, flags)
			if err != nil {
				return reportError(cmd, app.stderr, err, flags.verbose, "auto")
			}

			_, err = runDownload(cmd.Context(), downloadParams{
				session:    s,
				httpClient: app.HTTPClient,
				source:     source,
				packID:     args[0],
				version:    args[1],
				stdout:     app.stdout,
				stderr:     app.stderr,
			})
			if err != nil {
				err = withGuidance(err, "download pack", source.String()+"/"+args[0])
				return reportError(cmd, app.stderr, err, s.verbose, s.cfg.UI.ColorScheme.GlamourStyle())
			}
			return nil
		},
	}
}

// runDownload installs one pack version and prints a summary.
func runDownload(ctx context.Context, p downloadParams) (*installer.Result, error) {
	s := p.session

	fetcher := acquire.NewHTTPFetcher(
		acquire.WithFetchHTTPClient(p.httpClient),
		acquire.WithFetchUserAgent(s.cfg.API.UserAgent),
		acquire.WithFetchLogger(s.logger),
	)
	opts := []installer.Option{
		installer.WithFetcher(fetcher),
		installer.WithLogger(s.logger),
	}

	var bar *progressObserver
	if s.progress {
		bar = newProgressObserver(p.stderr)
		opts = append(opts, installer.WithObserver(bar))
	}

	s.logger.Debug("starting download", "source", p.source, "pack", p.packID, "version", p.version,
		"threads", s.threads, "dest", s.dest)

	res, err := installer.NewInstaller(s.client, opts...).Install(ctx, installer.Request{
		Source:  p.source,
		PackID:  p.packID,
		Version: p.version,
		Root:    s.dest,
		Threads: s.threads,
	})
	if bar != nil {
		bar.Done(err)
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.stdout, "%s Downloaded %s (version %s): %d files, %s\n",
		SuccessStyle.Render("✓"),
		TitleStyle.Render(res.Manifest.Name),
		CmdStyle.Render(res.Manifest.Version),
		res.Files,
		humanize.Bytes(uint64(max(res.Bytes, 0))))
	if res.Extracted {
		fmt.Fprintf(p.stdout, "%s Extracted %s override files", SuccessStyle.Render("✓"),
			humanize.Comma(int64(res.Overrides.Files)))
		if res.Overrides.Skipped > 0 {
			fmt.Fprintf(p.stdout, " (%d skipped)", res.Overrides.Skipped)
		}
		fmt.Fprintln(p.stdout)
	}
	fmt.Fprintf(p.stdout, "  %s %s\n", SubtitleStyle.Render("Location:"), res.Root)

	return res, nil
}

func sourceCommandName(source modpack.Source) string {
	if source == modpack.SourceCurseForge {
		return "cf"
	}
	return string(source)
}
