// Package progress renders analysis progress on stderr.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/TpouHuK/halstead-js/pkg/analyzer"
	"github.com/schollz/progressbar/v3"
)

// Bar wraps a progress bar for file processing.
type Bar struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

// New creates a progress bar writing to w. total may grow later through
// the tracker callback.
func New(w io.Writer, label string, total int) *Bar {
	if w == nil {
		w = os.Stderr
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Bar{bar: bar, label: label, out: w}
}

// Tracker returns an analyzer.Tracker that drives the bar.
func (b *Bar) Tracker() *analyzer.Tracker {
	return analyzer.NewTracker(func(current, total int, _ string) {
		if total > 0 && int64(total) != b.bar.GetMax64() {
			b.bar.ChangeMax(total)
		}
		_ = b.bar.Set(current)
	})
}

// Finish clears the bar.
func (b *Bar) Finish() {
	_ = b.bar.Finish()
	_ = b.bar.Clear()
}

// FinishError clears the bar and prints an error line.
func (b *Bar) FinishError(err error) {
	b.Finish()
	fmt.Fprintf(b.out, "  %s error: %v\n", b.label, err)
}
