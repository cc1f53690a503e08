// SPDX-License-Identifier: MPL-2.0

package acquire

import (
	"context"
	"crypto/sha1" //nolint:gosec // Manifests publish SHA-1 digests; this is integrity, not authentication.
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/packget/packget/pkg/modpack"
)

type (
	// FileFetcher downloads a single descriptor into packageRoot
	// (<destinationRoot>/<packID>).
	FileFetcher interface {
		Fetch(ctx context.Context, packageRoot string, d modpack.FileDescriptor) error
	}

	// HTTPFetcher is the FileFetcher used in production. It is safe for
	// concurrent use as long as concurrent calls target distinct files.
	HTTPFetcher struct {
		client    *http.Client
		userAgent string
		logger    *log.Logger

		files atomic.Int64
		bytes atomic.Int64
	}

	// FetcherOption configures an HTTPFetcher during construction.
	FetcherOption func(*HTTPFetcher)
)

// WithFetchHTTPClient sets the HTTP client used for file downloads.
func WithFetchHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithFetchUserAgent sets the User-Agent header sent with file downloads.
func WithFetchUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithFetchLogger sets the logger for per-file events.
func WithFetchLogger(l *log.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher that uses http.DefaultClient and
// discards logs unless configured otherwise.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client: http.DefaultClient,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads d.URL into memory, verifies the content against d.SHA1 when
// the manifest provides one, and writes it to <packageRoot>/<d.Path>/<d.Name>.
// Nothing is written when verification fails. Digests are compared as
// lowercase hex, so an uppercase manifest digest still matches.
func (f *HTTPFetcher) Fetch(ctx context.Context, packageRoot string, d modpack.FileDescriptor) error {
	target := filepath.Join(packageRoot, d.RelativeFile())
	f.logger.Debug("downloading", "file", target, "url", d.URL)

	data, err := f.download(ctx, d.URL)
	if err != nil {
		return err
	}

	got, want := digest(data), strings.ToLower(d.SHA1)
	// Upstream manifests omit digests for some entries; an empty hash skips verification.
	if want != "" && got != want {
		return modpack.NewError(modpack.KindHashMismatch, "verify file", target, &modpack.HashMismatchError{
			File:     d.Name,
			Expected: want,
			Got:      got,
		})
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return modpack.NewError(modpack.KindIO, "create directory", dir, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return modpack.NewError(modpack.KindIO, "write file", target, err)
	}

	f.files.Add(1)
	f.bytes.Add(int64(len(data)))
	f.logger.Debug("downloaded", "file", target, "bytes", len(data))
	return nil
}

// Stats returns the number of files and bytes written so far.
func (f *HTTPFetcher) Stats() (files, bytes int64) {
	return f.files.Load(), f.bytes.Load()
}

func (f *HTTPFetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, modpack.NewError(modpack.KindNetwork, "create request", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, modpack.NewError(modpack.KindNetwork, "download file", url, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, modpack.NewError(modpack.KindNetwork, "download file", url,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// The digest covers the complete body, so it is buffered before anything is written.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, modpack.NewError(modpack.KindNetwork, "read response", url, err)
	}
	return data, nil
}

// digest returns the lowercase hex SHA-1 of data.
func digest(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // See import comment.
	return hex.EncodeToString(sum[:])
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
