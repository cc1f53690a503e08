// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "packget",
		Short: "Download FTB and CurseForge modpacks",
		Long: TitleStyle.Render("packget") + SubtitleStyle.Render(" - Download FTB and CurseForge modpacks") + `

packget resolves a pack version through the modpacks.ch API, downloads
every file it lists into <dest>/<pack id>, verifies each file against its
published SHA-1 digest, and unpacks the overrides of CurseForge packs.

` + SubtitleStyle.Render("Examples:") + `
  packget ftb recent                     List recently updated FTB packs
  packget ftb search skyblock            Search the FTB catalog
  packget --threads 8 ftb download 79 latest
  packget cf download 477455 4532`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	bindRootFlags(rootCmd.PersistentFlags(), flags)
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newFTBCommand(app, flags))
	rootCmd.AddCommand(newCurseForgeCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// bindRootFlags registers the global flags. Their defaults only apply when
// set explicitly; otherwise the configuration decides.
func bindRootFlags(pf *pflag.FlagSet, flags *rootFlags) {
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "only report warnings and errors")
	pf.BoolVar(&flags.noProgress, "no-progress", false, "disable the download progress bar")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/packget/config.cue)")
	pf.IntVarP(&flags.threads, "threads", "t", 1, "number of files downloaded at once")
	pf.StringVarP(&flags.dest, "dest", "d", ".", "destination root, packs land in <dest>/<pack id>")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitUsage)
	}
}

// handleError prints errors that no handler has reported yet, in fang's style.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
