// SPDX-License-Identifier: MPL-2.0

// Package installer composes manifest resolution, file acquisition, and
// override extraction into a single pack installation.
package installer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/packget/packget/internal/acquire"
	"github.com/packget/packget/internal/overrides"
	"github.com/packget/packget/pkg/modpack"
)

type (
	// Resolver turns a pack reference into a manifest. *manifest.Client
	// implements it.
	Resolver interface {
		Resolve(ctx context.Context, source modpack.Source, packID, version string) (*modpack.Manifest, error)
	}

	// statsReporter is implemented by fetchers that count what they wrote.
	statsReporter interface {
		Stats() (files, bytes int64)
	}

	// Request describes one installation.
	Request struct {
		Source  modpack.Source
		PackID  string
		Version string // numeric version id or modpack.LatestVersion
		Root    string // destination root; the pack lands in Root/PackID
		Threads int    // download concurrency limit; values below 2 download sequentially
	}

	// Result summarizes a successful installation.
	Result struct {
		Manifest  *modpack.Manifest
		Root      string // <destination root>/<pack id>
		Files     int
		Bytes     int64
		Extracted bool
		Overrides overrides.Stats
	}

	// Installer runs Resolve, then the download dispatcher, then (for sources
	// that ship an overrides archive) the extractor. The stages never overlap.
	Installer struct {
		resolver  Resolver
		fetcher   acquire.FileFetcher
		observer  acquire.Observer
		logger    *log.Logger
		extractor *overrides.Extractor
	}

	// Option configures an Installer during construction.
	Option func(*Installer)
)

// WithFetcher overrides the default HTTP fetcher.
func WithFetcher(f acquire.FileFetcher) Option {
	return func(i *Installer) {
		i.fetcher = f
	}
}

// WithObserver registers a per-file progress observer.
func WithObserver(o acquire.Observer) Option {
	return func(i *Installer) {
		i.observer = o
	}
}

// WithLogger sets the logger passed down to every stage.
func WithLogger(l *log.Logger) Option {
	return func(i *Installer) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewInstaller creates an Installer that resolves manifests with r.
func NewInstaller(r Resolver, opts ...Option) *Installer {
	i := &Installer{
		resolver: r,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.fetcher == nil {
		i.fetcher = acquire.NewHTTPFetcher(acquire.WithFetchLogger(i.logger))
	}
	i.extractor = overrides.NewExtractor(overrides.WithLogger(i.logger))
	return i
}

// Install downloads the requested pack. On failure the destination may hold
// a partial tree; nothing is rolled back.
func (i *Installer) Install(ctx context.Context, req Request) (*Result, error) {
	if err := modpack.ValidatePackID(req.PackID); err != nil {
		return nil, err
	}
	root := req.Root
	if root == "" {
		root = "."
	}

	m, err := i.resolver.Resolve(ctx, req.Source, req.PackID, req.Version)
	if err != nil {
		return nil, fmt.Errorf("resolve %s pack %s: %w", req.Source.DisplayName(), req.PackID, err)
	}
	i.logger.Info("resolved pack", "name", m.Name, "version", m.Version, "files", len(m.Files))

	var beforeFiles, beforeBytes int64
	sr, counting := i.fetcher.(statsReporter)
	if counting {
		beforeFiles, beforeBytes = sr.Stats()
	}

	d := acquire.NewDispatcher(i.fetcher, acquire.WithLogger(i.logger), acquire.WithObserver(i.observer))
	if err := d.Run(ctx, m, root, req.Threads); err != nil {
		return nil, fmt.Errorf("download %s: %w", m.Name, err)
	}

	res := &Result{Manifest: m, Root: m.Root(root), Files: len(m.Files)}
	if counting {
		files, bytes := sr.Stats()
		res.Files = int(files - beforeFiles)
		res.Bytes = bytes - beforeBytes
	}

	if !m.Source.HasOverrides() {
		return res, nil
	}

	// The archive is an ordinary manifest file, so it exists once the
	// dispatcher succeeded. A pack without one fails here.
	archive := filepath.Join(res.Root, modpack.OverridesArchive)
	stats, err := i.extractor.Extract(archive, root, m.PackID)
	if err != nil {
		return nil, fmt.Errorf("extract overrides of %s: %w", m.Name, err)
	}
	res.Extracted = true
	res.Overrides = stats
	return res, nil
}
