package timer

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestTimer_TriggerAll(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		expected int
		rest     time.Duration
	}{
		{"nothing elapsed", 0, 0, 0},
		{"less than a period", 9 * time.Millisecond, 0, 9 * time.Millisecond},
		{"exactly one period", 10 * time.Millisecond, 1, 0},
		{"catch up", 35 * time.Millisecond, 3, 5 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			tm := NewWithClock(10*time.Millisecond, clock.Now)

			clock.Add(tt.elapsed)
			calls := 0
			fired := tm.Run(func() { calls++ })

			assert.Equal(t, tt.expected, fired)
			assert.Equal(t, tt.expected, calls)
			assert.Equal(t, tt.rest, tm.Elapsed())
		})
	}
}

func TestTimer_TriggerOnce(t *testing.T) {
	clock := newFakeClock()
	tm := NewWithClock(10*time.Millisecond, clock.Now)

	clock.Add(30 * time.Millisecond)
	tm.Advance()

	calls := 0
	for range 3 {
		assert.True(t, tm.TriggerOnce(func() { calls++ }))
	}
	assert.False(t, tm.TriggerOnce(func() { calls++ }))
	assert.Equal(t, 3, calls)
}

func TestTimer_IndependentOfPollRate(t *testing.T) {
	clock := newFakeClock()
	tm := NewWithClock(time.Second/60, clock.Now)

	calls := 0
	// poll 1000 times a second for one second
	for range 1000 {
		clock.Add(time.Millisecond)
		tm.Run(func() { calls++ })
	}
	assert.Equal(t, 60, calls)
}

func TestTimer_PauseResume(t *testing.T) {
	clock := newFakeClock()
	tm := NewWithClock(10*time.Millisecond, clock.Now)

	clock.Add(7 * time.Millisecond)
	tm.Pause()
	assert.True(t, tm.Paused())
	assert.Equal(t, 7*time.Millisecond, tm.Elapsed())

	// time passing while paused is ignored
	clock.Add(time.Second)
	assert.Equal(t, 0, tm.Run(func() {}))
	assert.Equal(t, 7*time.Millisecond, tm.Elapsed())

	tm.Resume()
	assert.False(t, tm.Paused())
	clock.Add(3 * time.Millisecond)
	assert.Equal(t, 1, tm.Run(func() {}))
	assert.Equal(t, time.Duration(0), tm.Elapsed())
}

func TestTimer_PauseTwice(t *testing.T) {
	clock := newFakeClock()
	tm := NewWithClock(10*time.Millisecond, clock.Now)

	clock.Add(4 * time.Millisecond)
	tm.Pause()
	clock.Add(4 * time.Millisecond)
	tm.Pause()
	assert.Equal(t, 4*time.Millisecond, tm.Elapsed())
}

func TestNew_SystemClock(t *testing.T) {
	tm := New(time.Hour)
	assert.Equal(t, time.Hour, tm.Period())
	assert.Equal(t, 0, tm.Run(func() {}))
}
