// Package progress renders terminal progress bars for the update and download
// phases. Bars are drawn only when the output is a terminal.
package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Bar is a progress bar that can be restarted for each phase.
type Bar struct {
	mu      sync.Mutex
	out     io.Writer
	title   string
	enabled bool
	bar     *progressbar.ProgressBar
}

// New returns a bar writing to out. A disabled bar ignores every call.
func New(out io.Writer, title string, enabled bool) *Bar {
	return &Bar{out: out, title: title, enabled: enabled && out != nil}
}

// ForStderr returns a bar on stderr, enabled when stderr is a terminal.
func ForStderr(title string) *Bar {
	return New(os.Stderr, title, Interactive(os.Stderr))
}

// Enabled reports whether the bar draws anything.
func (b *Bar) Enabled() bool {
	return b != nil && b.enabled
}

// Start resets the bar to zero of total.
func (b *Bar) Start(total int) {
	if !b.Enabled() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		_ = b.bar.Finish()
	}
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription(b.title),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(25),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(b.out, "\n")
		}),
	)
}

// Advance moves the bar one step and shows description beside it.
func (b *Bar) Advance(description string) {
	if !b.Enabled() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return
	}
	if description != "" {
		b.bar.Describe(b.title + " " + description)
	}
	_ = b.bar.Add(1)
}

// Finish completes the current bar.
func (b *Bar) Finish() {
	if !b.Enabled() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return
	}
	b.bar.Describe(b.title)
	_ = b.bar.Finish()
	b.bar = nil
}

// Stage adapts the bar to per-stage update callbacks. The bar starts on the
// first stage and finishes after the last.
func (b *Bar) Stage(done, total int, stage records.Stage, err error) {
	if !b.Enabled() {
		return
	}
	if done == 1 {
		b.Start(total)
	}
	label := stage.String()
	if err != nil {
		label += " (failed)"
	}
	b.Advance(label)
	if done == total {
		b.Finish()
	}
}
