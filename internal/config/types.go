// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultBaseURL is the public modpacks.ch API.
	DefaultBaseURL = "https://api.modpacks.ch/public/"
	// DefaultUserAgent is sent with every request. The API answers unknown
	// agents with empty file URLs.
	DefaultUserAgent = "curl/7.83.1"

	maxThreads = 256
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the rendering style for markdown output.
	ColorScheme string

	// Config is the full packget configuration.
	Config struct {
		// Threads is the download concurrency limit.
		Threads int `json:"threads" mapstructure:"threads"`
		// Destination is the root directory packs are downloaded into.
		Destination string    `json:"destination" mapstructure:"destination"`
		API         APIConfig `json:"api" mapstructure:"api"`
		UI          UIConfig  `json:"ui" mapstructure:"ui"`
	}

	// APIConfig configures the manifest API client.
	APIConfig struct {
		BaseURL   string `json:"base_url" mapstructure:"base_url"`
		UserAgent string `json:"user_agent" mapstructure:"user_agent"`
	}

	// UIConfig configures console output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		// Progress shows a progress bar while files download.
		Progress bool `json:"progress" mapstructure:"progress"`
	}

	// InvalidConfigError collects every field that failed validation.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Threads:     1,
		Destination: ".",
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: DefaultUserAgent,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Progress:    true,
		},
	}
}

// Validate returns an error if the color scheme is not one of the known values.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidColorScheme, string(c))
}

// GlamourStyle returns the glamour style name for the scheme.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	case ColorSchemeAuto:
		return "auto"
	}
	return "auto"
}

// Validate checks values that may have bypassed the CUE schema through
// environment variables.
func (c *Config) Validate() error {
	var errs []error
	if c.Threads < 1 || c.Threads > maxThreads {
		errs = append(errs, fmt.Errorf("threads: must be between 1 and %d, got %d", maxThreads, c.Threads))
	}
	if strings.TrimSpace(c.Destination) == "" {
		errs = append(errs, errors.New("destination: must not be empty"))
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url: not an http(s) URL: %q", c.API.BaseURL))
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui.color_scheme: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
