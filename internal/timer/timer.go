// Package timer converts elapsed wall clock time into a whole number of
// fixed period triggers, independent of how often it is polled.
package timer

import "time"

// Clock returns the current time.
type Clock func() time.Time

// Timer accumulates elapsed time and fires a callback once for every
// complete period that has elapsed.
type Timer struct {
	now     Clock
	period  time.Duration
	elapsed time.Duration // accumulated time not yet consumed by triggers
	last    time.Time
	paused  bool
}

// New returns a timer with the given trigger period that uses the system clock.
func New(period time.Duration) *Timer {
	return NewWithClock(period, time.Now)
}

// NewWithClock returns a timer with the given trigger period that reads the
// time from the passed clock.
func NewWithClock(period time.Duration, now Clock) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{
		now:    now,
		period: period,
		last:   now(),
	}
}

// Period returns the trigger period.
func (t *Timer) Period() time.Duration {
	return t.period
}

// Elapsed returns the accumulated time that has not been consumed by
// triggers yet.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Paused returns whether the timer is paused.
func (t *Timer) Paused() bool {
	return t.paused
}

// Advance adds the time elapsed since the last call to the accumulator.
// A paused timer does not accumulate time.
func (t *Timer) Advance() {
	if t.paused {
		return
	}
	now := t.now()
	t.elapsed += now.Sub(t.last)
	t.last = now
}

// TriggerAll calls fn once for every complete period in the accumulator and
// returns the number of calls. A timer that was polled late catches up by
// firing multiple times.
func (t *Timer) TriggerAll(fn func()) int {
	count := 0
	for t.period > 0 && t.elapsed >= t.period {
		t.elapsed -= t.period
		fn()
		count++
	}
	return count
}

// TriggerOnce calls fn at most once if at least one complete period is in
// the accumulator and returns whether it fired. Remaining periods stay
// queued for later calls.
func (t *Timer) TriggerOnce(fn func()) bool {
	if t.period <= 0 || t.elapsed < t.period {
		return false
	}
	t.elapsed -= t.period
	fn()
	return true
}

// Run advances the timer and triggers all complete periods.
func (t *Timer) Run(fn func()) int {
	t.Advance()
	return t.TriggerAll(fn)
}

// Pause freezes the accumulator. Time elapsed up to the call is kept.
func (t *Timer) Pause() {
	if t.paused {
		return
	}
	t.Advance()
	t.paused = true
}

// Resume continues accumulating time from now on. Time that passed while
// paused is not counted.
func (t *Timer) Resume() {
	if !t.paused {
		return
	}
	t.paused = false
	t.last = t.now()
}
