// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packget/packget/internal/config"
	"github.com/packget/packget/internal/manifest"
)

var errInvalidThreads = errors.New("--threads must be at least 1")

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App and reaches the
	// configuration and the network through it.
	App struct {
		Config     config.Provider
		HTTPClient *http.Client
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     config.Provider
		HTTPClient *http.Client
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// rootFlags holds the persistent flags shared by every subcommand.
	rootFlags struct {
		verbose    bool
		quiet      bool
		noProgress bool
		configPath string
		threads    int
		dest       string
	}

	// session is the effective state of one invocation: the loaded
	// configuration with explicitly set flags applied on top.
	session struct {
		cfg      *config.Config
		logger   *log.Logger
		client   *manifest.Client
		threads  int
		dest     string
		verbose  bool
		progress bool
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		HTTPClient: deps.HTTPClient,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.HTTPClient == nil {
		app.HTTPClient = http.DefaultClient
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newSession loads the configuration and applies the flags the user set.
// Flags win over environment variables, which win over the config file.
func (a *App) newSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	cfg, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		threads:  cfg.Threads,
		dest:     cfg.Destination,
		verbose:  cfg.UI.Verbose || flags.verbose,
		progress: cfg.UI.Progress && !flags.noProgress && !flags.quiet,
	}
	if cmd.Flags().Changed("threads") {
		if flags.threads < 1 {
			return nil, fmt.Errorf("%w, got %d", errInvalidThreads, flags.threads)
		}
		s.threads = flags.threads
	}
	if cmd.Flags().Changed("dest") {
		s.dest = flags.dest
	}

	s.logger = newLogger(a.stderr, s.verbose, flags.quiet)
	s.client = manifest.NewClient(
		manifest.WithHTTPClient(a.HTTPClient),
		manifest.WithBaseURL(cfg.API.BaseURL),
		manifest.WithUserAgent(cfg.API.UserAgent),
	)
	return s, nil
}

// newLogger builds the CLI logger. Quiet wins over verbose.
func newLogger(w io.Writer, verbose, quiet bool) *log.Logger {
	level := log.InfoLevel
	switch {
	case quiet:
		level = log.WarnLevel
	case verbose:
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}
