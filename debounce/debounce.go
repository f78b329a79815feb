// Package debounce coalesces bursts of calls into a single trailing
// invocation of a callback.
package debounce

import (
	"sync"
	"time"
)

// Debouncer invokes its callback once the configured delay has elapsed since
// the most recent Call. Safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	seq     uint64 // invalidates timer callbacks that lost a re-arm race
	stopped bool
}

// New creates a debouncer around fn. The callback runs on a timer goroutine.
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Call schedules the callback, replacing any previously scheduled fire.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || d.timer == nil || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()
	fn()
}

// Flush runs the callback immediately if one is pending, cancelling the
// scheduled fire. No-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	fn := d.fn
	d.mu.Unlock()
	fn()
}

// Stop cancels any pending fire and makes further Call/Flush no-ops.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.stopped = true
}

// Pending reports whether a fire is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
