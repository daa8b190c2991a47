package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBurstIntoOneFire(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() {
		fires.Add(1)
	})
	defer d.Stop()

	// A burst of triggers within one quiescence window fires once.
	d.Trigger()
	d.Trigger()
	d.Trigger()

	time.Sleep(300 * time.Millisecond)
	if got := fires.Load(); got != 1 {
		t.Errorf("fires = %d, want 1", got)
	}
}

func TestDebouncer_SeparatedTriggersFireSeparately(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() {
		fires.Add(1)
	})
	defer d.Stop()

	d.Trigger()
	time.Sleep(200 * time.Millisecond)
	d.Trigger()
	time.Sleep(200 * time.Millisecond)

	if got := fires.Load(); got != 2 {
		t.Errorf("fires = %d, want 2", got)
	}
}

func TestDebouncer_TriggerSupersedesPendingFire(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(100*time.Millisecond, func() {
		fires.Add(1)
	})
	defer d.Stop()

	// Keep re-triggering faster than the window; nothing may fire until
	// the triggers stop.
	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(30 * time.Millisecond)
	}
	if got := fires.Load(); got != 0 {
		t.Fatalf("fired %d times while still being triggered, want 0", got)
	}

	time.Sleep(400 * time.Millisecond)
	if got := fires.Load(); got != 1 {
		t.Errorf("fires = %d, want exactly 1 after quiescence", got)
	}
}

func TestDebouncer_CallbacksDoNotOverlap(t *testing.T) {
	var active atomic.Int32
	var overlapped atomic.Bool
	var fires atomic.Int32

	// A callback slower than the quiescence window: the second fire must
	// wait for the first to finish, not run concurrently with it.
	d := NewDebouncer(20*time.Millisecond, func() {
		if active.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(150 * time.Millisecond)
		active.Add(-1)
		fires.Add(1)
	})
	defer d.Stop()

	d.Trigger()
	// Wait until the first run is underway, then schedule another.
	time.Sleep(60 * time.Millisecond)
	d.Trigger()

	time.Sleep(500 * time.Millisecond)
	if overlapped.Load() {
		t.Error("callback ran while a previous run was still in progress")
	}
	if got := fires.Load(); got != 2 {
		t.Errorf("fires = %d, want 2", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	var fires atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() {
		fires.Add(1)
	})

	d.Trigger()
	d.Stop()

	time.Sleep(200 * time.Millisecond)
	if got := fires.Load(); got != 0 {
		t.Errorf("fires = %d after Stop, want 0", got)
	}
}

func TestWatchFile_FiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, 10*time.Millisecond, 20*time.Millisecond, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to record the initial state, then change
	// the file. Content length changes so the size check fires even on
	// filesystems with coarse mtime resolution.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"a":1,"b":2}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("watcher never fired after file change")
	}

	cancel()
	if err := <-done; err != context.Canceled && err != context.DeadlineExceeded {
		t.Errorf("WatchFile returned %v, want context cancellation", err)
	}
}

func TestWatchFile_ReturnsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`1`), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, 10*time.Millisecond, 10*time.Millisecond, func() {})
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("WatchFile returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WatchFile did not return after cancel")
	}
}
