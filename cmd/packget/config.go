// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/packget/packget/internal/config"
)

// newConfigCommand creates the `packget config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage packget configuration",
		Long: `Manage packget configuration.

Configuration is stored in:
  - Linux: ~/.config/packget/config.cue
  - macOS: ~/Library/Application Support/packget/config.cue
  - Windows: %APPDATA%\packget\config.cue

Every key can be overridden with a PACKGET_ environment variable, e.g.
PACKGET_THREADS=8 or PACKGET_API_BASE_URL=http://localhost:8080/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.LoadOptions{ConfigFilePath: flags.configPath}
			if err := showConfig(cmd.Context(), app.Config, opts, app.stdout); err != nil {
				return reportError(cmd, app.stderr, err, flags.verbose, "auto")
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(""); err != nil {
					return err
				}
			}
			if err := config.WriteDefault(path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					cmd.SilenceUsage = true
					return &ExitError{Code: exitUsage, Err: fmt.Errorf("%w (use --force to overwrite)", err)}
				}
				return err
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.Config, config.LoadOptions{ConfigFilePath: flags.configPath}, app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return reportError(cmd, app.stderr, err, flags.verbose, "auto")
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, provider config.Provider, opts config.LoadOptions, w io.Writer) error {
	cfg, err := provider.Load(ctx, opts)
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, err := provider.Path(opts)
	if err != nil || path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("threads"), valueStyle.Render(strconv.Itoa(cfg.Threads)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("destination"), valueStyle.Render(cfg.Destination))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("api"))
	fmt.Fprintf(w, "  base_url: %s\n", valueStyle.Render(cfg.API.BaseURL))
	fmt.Fprintf(w, "  user_agent: %s\n", valueStyle.Render(cfg.API.UserAgent))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  progress: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Progress)))

	return nil
}

func showConfigPath(provider config.Provider, opts config.LoadOptions, w io.Writer) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	userPath, err := config.DefaultConfigPath(cfgDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", userPath)

	active, err := provider.Path(opts)
	if err != nil {
		return err
	}
	if active == "" {
		active = "(none, using defaults)"
	}
	fmt.Fprintf(w, "Active file: %s\n", active)
	return nil
}
