// Package debounce coalesces bursts of input into a single call.
package debounce

import (
	"strings"
	"sync"
	"time"
)

// Debouncer delays fn until no Trigger has arrived for the quiet period,
// then calls it once with the latest value.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	pending bool
	value   T
	gen     uint64
	stopped bool
}

// New creates a debouncer calling fn after delay of quiet
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v and restarts the quiet period
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost the Stop race must not fire a superseded value
	if !d.pending || gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Cancel drops the pending call, if any
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	d.gen++
}

// Flush runs the pending call now. It reports whether anything was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	v := d.value
	d.cancelLocked()
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether a call is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending call and ignores later triggers
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// NormalizeTerm trims and bounds a search term. Terms shorter than minLen
// runes, other than the empty string, carry no constraint and come back
// empty; longer terms are cut to maxLen runes.
func NormalizeTerm(term string, minLen, maxLen int) string {
	term = strings.TrimSpace(term)
	runes := []rune(term)
	if len(runes) == 0 || len(runes) < minLen {
		return ""
	}
	if maxLen > 0 && len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return term
}
