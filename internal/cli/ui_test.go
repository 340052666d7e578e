package cli

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/gfncheck/internal/fermat"
)

// fakeSpinner records interactions for assertions.
type fakeSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (f *fakeSpinner) Start() { f.mu.Lock(); f.started = true; f.mu.Unlock() }
func (f *fakeSpinner) Stop()  { f.mu.Lock(); f.stopped = true; f.mu.Unlock() }
func (f *fakeSpinner) UpdateSuffix(s string) {
	f.mu.Lock()
	f.suffixes = append(f.suffixes, s)
	f.mu.Unlock()
}

func TestFormatExecutionDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{250 * time.Millisecond, "250ms"},
		{3 * time.Second, "3s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestProgressDisplayRun(t *testing.T) {
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(options ...spinner.Option) Spinner { return fake }
	defer func() { newSpinner = orig }()

	display := NewProgressDisplay("3^1024+1")
	updates := make(chan fermat.Progress, 4)

	var wg sync.WaitGroup
	wg.Add(1)
	go display.Run(&wg, updates)

	updates <- fermat.Progress{Done: 50, Total: 100, MaxError: 0.125}
	updates <- fermat.Progress{Done: 100, Total: 100, MaxError: 0.25}
	close(updates)
	wg.Wait()

	if !fake.started || !fake.stopped {
		t.Fatalf("spinner lifecycle: started=%v stopped=%v", fake.started, fake.stopped)
	}
	if len(fake.suffixes) != 2 {
		t.Fatalf("suffix updates = %d, want 2", len(fake.suffixes))
	}
	if !strings.Contains(fake.suffixes[0], "50.00%") {
		t.Errorf("first suffix = %q", fake.suffixes[0])
	}
	if !strings.Contains(fake.suffixes[1], "100.00%") || !strings.Contains(fake.suffixes[1], "0.2500") {
		t.Errorf("second suffix = %q", fake.suffixes[1])
	}
}
