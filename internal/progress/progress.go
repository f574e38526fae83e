// Package progress renders terminal progress for ingestion and analysis.
// Bars write to stderr so piped stdout output stays clean.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker drives a progress bar through an ingestion or analysis phase.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner tracks a phase whose length is not known up front, such as
// running the section analyzers.
func NewSpinner(label string) *Tracker {
	return &Tracker{
		label: label,
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// NewTracker tracks a phase with a known number of steps, one per input file.
func NewTracker(label string, total int) *Tracker {
	return &Tracker{
		label: label,
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetDescription(label),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

// Tick advances the bar by one step. Safe to call from worker goroutines.
func (t *Tracker) Tick() {
	t.bar.Add(1)
}

// FinishSuccess completes and clears the bar without leaving output behind.
func (t *Tracker) FinishSuccess() {
	t.bar.Finish()
	t.bar.Clear()
}

// FinishError clears the bar and marks the phase as failed. The error itself
// is reported by the caller.
func (t *Tracker) FinishError() {
	t.bar.Finish()
	t.bar.Clear()
	fmt.Fprintf(os.Stderr, "  %s failed\n", t.label)
}
