// SPDX-License-Identifier: MPL-2.0

package acquire

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/packget/packget/pkg/modpack"
)

type (
	// Observer is notified around every fetch. In parallel mode the methods
	// are called from worker goroutines, so implementations must be safe for
	// concurrent use.
	Observer interface {
		FileStarted(d modpack.FileDescriptor)
		FileFinished(d modpack.FileDescriptor, err error)
	}

	// RunObserver is an optional Observer extension that learns the manifest
	// before its first file is fetched.
	RunObserver interface {
		RunStarted(m *modpack.Manifest)
	}

	// Dispatcher runs a FileFetcher for every descriptor of a manifest under
	// a concurrency limit.
	//
	// In parallel mode the first reported failure wins: Run returns it at once,
	// and the remaining workers keep running in the background with no
	// cancellation signal. Their own failures are buffered and never read.
	Dispatcher struct {
		fetcher  FileFetcher
		logger   *log.Logger
		observer Observer
	}

	// DispatcherOption configures a Dispatcher during construction.
	DispatcherOption func(*Dispatcher)
)

// WithLogger sets the logger used by the dispatcher.
func WithLogger(l *log.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithObserver registers an Observer, e.g. a progress display.
func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// NewDispatcher creates a Dispatcher around fetcher.
func NewDispatcher(fetcher FileFetcher, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		fetcher: fetcher,
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run fetches every file of m into <destinationRoot>/<m.PackID>.
//
// With limit <= 1 the files are fetched in manifest order and Run stops at the
// first failure; later descriptors are never attempted. With limit > 1 at most
// limit fetches run at once, in no particular order. Both modes leave the same
// tree on disk when every fetch succeeds.
func (d *Dispatcher) Run(ctx context.Context, m *modpack.Manifest, destinationRoot string, limit int) error {
	if len(m.Files) == 0 {
		return nil
	}
	packageRoot := m.Root(destinationRoot)
	if ro, ok := d.observer.(RunObserver); ok {
		ro.RunStarted(m)
	}

	if limit <= 1 {
		d.logger.Debug("downloading sequentially", "files", len(m.Files))
		for _, fd := range m.Files {
			if err := d.fetch(ctx, packageRoot, fd); err != nil {
				return err
			}
		}
		return nil
	}

	workers := min(limit, len(m.Files))
	d.logger.Debug("downloading in parallel", "files", len(m.Files), "workers", workers)

	tasks := make(chan modpack.FileDescriptor, len(m.Files))
	for _, fd := range m.Files {
		tasks <- fd
	}
	close(tasks)

	// Sized so that no worker ever blocks on reporting, even after Run has
	// stopped reading.
	errs := make(chan error, len(m.Files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fd := range tasks {
				if err := d.fetch(ctx, packageRoot, fd); err != nil {
					errs <- err
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errs:
		d.logger.Debug("aborting download, in-flight workers are abandoned", "error", err)
		return err
	case <-done:
		// Workers report before exiting, so a failure may still be buffered.
		select {
		case err := <-errs:
			return err
		default:
			return nil
		}
	}
}

func (d *Dispatcher) fetch(ctx context.Context, packageRoot string, fd modpack.FileDescriptor) error {
	if d.observer != nil {
		d.observer.FileStarted(fd)
	}
	err := d.fetcher.Fetch(ctx, packageRoot, fd)
	if d.observer != nil {
		d.observer.FileFinished(fd, err)
	}
	if err != nil {
		d.logger.Debug("fetch failed", "file", fd.RelativeFile(), "error", err)
	}
	return err
}
