// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/packget/packget/pkg/modpack"
)

const (
	// DefaultBaseURL is the public modpacks.ch API root.
	DefaultBaseURL = "https://api.modpacks.ch/public/"

	// DefaultUserAgent is sent with every request. The API returns empty file
	// URLs in version manifests for agents it does not recognize.
	DefaultUserAgent = "curl/7.83.1"

	// maxJSONResponseBytes is the upper bound on API response size (32 MB).
	// Large packs list several thousand files.
	maxJSONResponseBytes = 32 << 20
)

// ErrPackNotFound is returned when the API reports an unknown pack or version.
var ErrPackNotFound = errors.New("pack not found")

type (
	// Client queries the modpacks.ch API.
	Client struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	// APIError is an error payload returned with a success status, e.g.
	// {"status": "error", "message": "Modpack not found"}.
	APIError struct {
		Message string
	}

	// apiStatus is embedded in every response schema.
	apiStatus struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
)

func (e *APIError) Error() string {
	return "api error: " + e.Message
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/") + "/"
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// NewClient creates a Client with the public API defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// getJSON fetches base+path and decodes the body into dst. The status field
// shared by all responses is checked after decoding.
func (c *Client) getJSON(ctx context.Context, path string, dst interface{ status() apiStatus }) error {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return modpack.NewError(modpack.KindNetwork, "create request", redactURL(reqURL), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return modpack.NewError(modpack.KindNetwork, "get", redactURL(reqURL), err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode == http.StatusNotFound {
		return modpack.NewError(modpack.KindNetwork, "get", redactURL(reqURL), ErrPackNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return modpack.NewError(modpack.KindNetwork, "get", redactURL(reqURL),
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(dst); err != nil {
		return modpack.NewError(modpack.KindDecode, "decode response", redactURL(reqURL), err)
	}

	if st := dst.status(); strings.EqualFold(st.Status, "error") {
		apiErr := &APIError{Message: st.Message}
		if strings.Contains(strings.ToLower(st.Message), "not found") {
			return modpack.NewError(modpack.KindDecode, "get", redactURL(reqURL),
				fmt.Errorf("%w: %w", ErrPackNotFound, apiErr))
		}
		return modpack.NewError(modpack.KindDecode, "get", redactURL(reqURL), apiErr)
	}

	return nil
}

func (s apiStatus) status() apiStatus { return s }

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
