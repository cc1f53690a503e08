// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/packget/packget/pkg/modpack"
)

// progressObserver draws one bar per download run, advancing once per
// verified file. It implements acquire.Observer and acquire.RunObserver.
type progressObserver struct {
	w io.Writer

	mu        sync.Mutex
	bar       *progressbar.ProgressBar
	completed int
	failed    int
	done      bool
}

func newProgressObserver(w io.Writer) *progressObserver {
	return &progressObserver{w: w}
}

func (p *progressObserver) RunStarted(m *modpack.Manifest) {
	p.mu.Lock()
	defer p.mu.Unlock()

	description := m.Name
	if description == "" {
		description = m.PackID
	}
	p.bar = progressbar.NewOptions(len(m.Files),
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (p *progressObserver) FileStarted(modpack.FileDescriptor) {}

func (p *progressObserver) FileFinished(_ modpack.FileDescriptor, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Abandoned workers may still report after the run failed.
	if p.bar == nil || p.done {
		return
	}
	if err != nil {
		p.failed++
		return
	}
	p.completed++
	_ = p.bar.Add(1)
}

// Done stops drawing. A successful run clears the bar, a failed one leaves
// it where it stopped.
func (p *progressObserver) Done(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil || p.done {
		return
	}
	p.done = true
	if err == nil {
		_ = p.bar.Finish()
		return
	}
	_ = p.bar.Exit()
	_, _ = io.WriteString(p.w, "\n")
}

// counts reports how many files finished and failed.
func (p *progressObserver) counts() (completed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed, p.failed
}
