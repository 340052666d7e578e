package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/gfncheck/internal/fermat"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress
	// display.
	ProgressRefreshRate = 200 * time.Millisecond
)

// FormatExecutionDuration formats a time.Duration for display. It shows
// microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default representation
// otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner abstracts the terminal spinner so DisplayProgress can be
// exercised with a fake in tests.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressDisplay renders test progress on a spinner. Updates arrive on
// a channel from the test goroutine; display runs on its own.
type ProgressDisplay struct {
	target string
	sp     Spinner
}

// NewProgressDisplay creates a display for the named target, e.g.
// "399998300^1024+1".
func NewProgressDisplay(target string) *ProgressDisplay {
	return &ProgressDisplay{target: target, sp: newSpinner()}
}

// Run consumes progress updates until the channel closes.
func (p *ProgressDisplay) Run(wg *sync.WaitGroup, updates <-chan fermat.Progress) {
	defer wg.Done()
	p.sp.Start()
	defer p.sp.Stop()

	for u := range updates {
		pct := 0.0
		if u.Total > 0 {
			pct = 100 * float64(u.Done) / float64(u.Total)
		}
		p.sp.UpdateSuffix(fmt.Sprintf(" %s  %6.2f%%  err %.4f", p.target, pct, u.MaxError))
	}
}
