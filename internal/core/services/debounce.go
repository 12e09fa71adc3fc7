package services

import (
	"sync"
	"time"
)

// Debouncer runs an action once a burst of triggers has been quiet for a
// fixed delay. Each Trigger cancels the pending run and schedules a new one.
// Runs never overlap.
type Debouncer struct {
	delay  time.Duration
	action func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	stopped bool
	// gen identifies the current timer. A callback whose timer was replaced
	// while it waited for mu carries an older value and must not run.
	gen uint64

	runMu sync.Mutex
}

// NewDebouncer creates a debouncer that calls action after delay.
func NewDebouncer(delay time.Duration, action func()) *Debouncer {
	return &Debouncer{delay: delay, action: action}
}

// Trigger (re)starts the quiet period. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs a scheduled action immediately and reports whether one ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	d.mu.Unlock()

	d.run()
	return true
}

// Stop cancels any scheduled run and disables further triggers.
// A run already in progress completes before Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.runMu.Lock()
	d.runMu.Unlock() //nolint:staticcheck // waits for an in-flight run
}

// fire is the timer callback for generation gen.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.run()
}

func (d *Debouncer) run() {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.action()
}
