// Package watch implements the debounced re-parse trigger: file changes
// are coalesced so a re-parse runs only after a quiescence window with
// no further edits. The parse pipeline itself stays synchronous and
// stateless; this package only decides when to invoke it.
package watch

import (
	"context"
	"os"
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single callback. Each
// Trigger cancels any pending timer before scheduling a new one, so only
// the most recently scheduled timer can fire: at most one callback per
// quiescence window. Callback runs are serialized: if a run is still in
// progress when the next timer fires, the new run waits for it.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()

	// runMu is held for the duration of each fn call. Timers fire on
	// their own goroutines, so without it a slow callback could overlap
	// the next one.
	runMu sync.Mutex
}

// NewDebouncer creates a Debouncer that invokes fn once input has been
// quiet for delay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiescence window, superseding any pending fire.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.run)
}

func (d *Debouncer) run() {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn()
}

// Stop cancels any pending fire. It does not wait for a callback that
// has already started.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// WatchFile polls path at the given interval and runs onChange, debounced
// by quiescence, whenever the file's modification time or size changes.
// It blocks until ctx is canceled. The first onChange only fires after
// the first observed change; callers render the initial state themselves.
func WatchFile(ctx context.Context, path string, interval, quiescence time.Duration, onChange func()) error {
	deb := NewDebouncer(quiescence, onChange)
	defer deb.Stop()

	var lastMod time.Time
	var lastSize int64
	if info, err := os.Stat(path); err == nil {
		lastMod = info.ModTime()
		lastSize = info.Size()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				// The file may be mid-replace (editors often write via
				// rename); keep polling until it shows up again.
				continue
			}
			if !info.ModTime().Equal(lastMod) || info.Size() != lastSize {
				lastMod = info.ModTime()
				lastSize = info.Size()
				deb.Trigger()
			}
		}
	}
}
